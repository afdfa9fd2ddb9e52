package table

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	assert.Equal(t, Settings{Indent: 3, RowSpace: 1}, DefaultSettings())
	assert.Equal(t, DefaultSettings(), Defaults())
}

func TestSetDefaultsReplacesWholesale(t *testing.T) {
	defer SetDefaults(DefaultSettings())

	SetDefaults(Settings{Indent: 1})
	assert.Equal(t, Settings{Indent: 1, RowSpace: 0}, Defaults(), "fields not supplied are not merged from the previous value")

	f := New()
	out := f.RenderString(context.Background(), []Record{NewRecord("a", "x", "b", "y")}, "", nil)
	assert.Equal(t, " ab\n --\n xy\n", out)

	pinned := New(WithSettings(Settings{Indent: 0, RowSpace: 1}))
	SetDefaults(Settings{Indent: 8, RowSpace: 8})
	assert.Equal(t, Settings{Indent: 0, RowSpace: 1}, pinned.Settings())
	assert.Equal(t, Settings{Indent: 8, RowSpace: 8}, f.Settings())
}

func TestSetDefaultsConcurrentWithRender(t *testing.T) {
	defer SetDefaults(DefaultSettings())

	records := []Record{NewRecord("a", "x", "b", "y")}
	valid := map[string]bool{
		"   a b\n   - -\n   x y\n": true,
		"a  b\n-  -\nx  y\n":       true,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetDefaults(Settings{Indent: 0, RowSpace: 2})
			SetDefaults(DefaultSettings())
		}()
		go func() {
			defer wg.Done()
			out := New().RenderString(context.Background(), records, "", nil)
			assert.True(t, valid[out], "unexpected render %q", out)
		}()
	}
	wg.Wait()
}
