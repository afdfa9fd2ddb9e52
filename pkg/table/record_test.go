package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord("b", 1, "a", 2, 3, "three", "dangling")
	assert.Equal(t, []string{"b", "a", "3", "dangling"}, r.Keys())
	assert.Equal(t, 4, r.Len())

	v, ok := r.Get("3")
	assert.True(t, ok)
	assert.Equal(t, "three", v)

	v, ok = r.Get("dangling")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, r.Has("dangling"))
	assert.False(t, r.Has("missing"))
}

func TestRecordSetKeepsPosition(t *testing.T) {
	r := NewRecord("x", 1, "y", 2)
	r.Set("x", 10)
	r.Set("z", 3)
	assert.Equal(t, []string{"x", "y", "z"}, r.Keys())
	assert.Equal(t, map[string]any{"x": 10, "y": 2, "z": 3}, r.Map())
}

func TestRecordZeroValue(t *testing.T) {
	var r Record
	assert.Nil(t, r.Keys())
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Empty(t, r.Map())

	r.Set("a", 1)
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestRecordFromMapSortsKeys(t *testing.T) {
	r := RecordFromMap(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Keys())
}
