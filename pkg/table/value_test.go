package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestStringify(t *testing.T) {
	three := 3
	var nilPtr *point
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "Anna", want: "Anna"},
		{name: "newlines flattened", in: "a\r\nb\nc", want: `a\nb\nc`},
		{name: "bool", in: false, want: "false"},
		{name: "int", in: 42, want: "42"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "whole float", in: float64(3), want: "3"},
		{name: "slice", in: []any{"a", 1}, want: `["a",1]`},
		{name: "map", in: map[string]any{"b": 1, "a": 2}, want: `{"a":2,"b":1}`},
		{name: "struct", in: point{X: 1, Y: 2}, want: `{"x":1,"y":2}`},
		{name: "pointer", in: &three, want: "3"},
		{name: "nil pointer", in: nilPtr, want: ""},
		{name: "stringer", in: 90 * time.Second, want: "1m30s"},
		{name: "decorated", in: Decorate("x", bold), want: bold("x")},
		{name: "record", in: NewRecord("k", "v"), want: `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestDecoratedText(t *testing.T) {
	d := Decorate("Anna", bold)
	assert.Equal(t, 4, d.VisibleWidth())
	assert.Equal(t, bold("Anna"), d.Rendered())
	assert.Equal(t, d.Rendered(), d.String())

	plain := DecoratedText{Text: "Anna"}
	assert.Equal(t, "Anna", plain.Rendered())
	assert.Equal(t, plain.VisibleWidth(), d.VisibleWidth())

	assert.Equal(t, "", Decorate("", bold).Rendered(), "empty text stays empty so the cell renders blank")
}

func TestNewCellMeasuresVisibleText(t *testing.T) {
	assert.Equal(t, 4, newCell(bold("Anna")).width)
	assert.Equal(t, 4, newCell(Decorate("Anna", gray)).width)
	assert.Equal(t, 4, newCell(&DecoratedText{Text: "Anna", Decorate: gray}).width)
	assert.Equal(t, 4, newCell("日本").width)
	assert.True(t, newCell(nil).empty())
	assert.True(t, newCell((*DecoratedText)(nil)).empty())
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{nil, false, "", 0, int64(0), 0.0, uint(0), (*point)(nil)} {
		assert.False(t, Truthy(v), "%#v", v)
	}
	for _, v := range []any{true, "No", 1, -1, 0.5, point{}, []any{}, Decorate("", nil)} {
		assert.True(t, Truthy(v), "%#v", v)
	}
}
