package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ctable/pkg/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func intPtr(v int) *int { return &v }

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, table.DefaultSettings(), cfg.Settings())
	assert.Empty(t, cfg.Align)
	assert.Empty(t, cfg.Columns)
	require.NoError(t, cfg.Validate())
	assert.Contains(t, string(DefaultYAML()), "rowSpace: 1")
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
indent: 0
align: llr
columns:
  - name: active
    transform: 'value ? "Yes" : "No"'
    style: gray
  - name: first name
    maxWidth: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Settings{Indent: 0, RowSpace: 1}, cfg.Settings())
	assert.Equal(t, "llr", cfg.Align)

	col, ok := cfg.Column("active")
	require.True(t, ok)
	assert.Equal(t, `value ? "Yes" : "No"`, col.Transform)
	assert.Equal(t, "gray", col.Style)

	_, ok = cfg.Column("missing")
	assert.False(t, ok)
	assert.Equal(t, map[string]table.ColumnOption{"first name": {MaxWidth: 8}}, cfg.ColumnOptions())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
rowSpace = 2
align = "rc"

[[columns]]
name = "count"
maxWidth = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Settings{Indent: 3, RowSpace: 2}, cfg.Settings())
	assert.Equal(t, "rc", cfg.Align)
	assert.Equal(t, []Column{{Name: "count", MaxWidth: 4}}, cfg.Columns)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, table.DefaultSettings(), cfg.Settings())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{name: "unknown yaml field", file: "c.yaml", content: "colour: red\n"},
		{name: "unknown toml field", file: "c.toml", content: "colour = \"red\"\n"},
		{name: "bad align", file: "c.yaml", content: "align: lxr\n", field: "align"},
		{name: "missing column name", file: "c.yaml", content: "columns:\n  - style: bold\n", field: "columns[0].name"},
		{name: "duplicate column", file: "c.yaml", content: "columns:\n  - name: a\n  - name: a\n", field: "columns[1].name"},
		{name: "negative width", file: "c.yaml", content: "columns:\n  - name: a\n    maxWidth: -1\n", field: "columns[0].maxWidth"},
		{name: "bad style", file: "c.yaml", content: "columns:\n  - name: a\n    style: sparkly\n", field: "columns[0].style"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.field == "" {
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	base := &File{
		Indent:  intPtr(3),
		Align:   "ll",
		Columns: []Column{{Name: "a", Style: "bold", MaxWidth: 5}},
	}
	base.Merge(&File{
		RowSpace: intPtr(4),
		Columns: []Column{
			{Name: "a", Transform: "value + 1"},
			{Name: "b", Style: "red"},
		},
	})
	assert.Equal(t, table.Settings{Indent: 3, RowSpace: 4}, base.Settings())
	assert.Equal(t, "ll", base.Align)
	assert.Equal(t, []Column{
		{Name: "a", Transform: "value + 1", Style: "bold", MaxWidth: 5},
		{Name: "b", Style: "red"},
	}, base.Columns)

	base.Merge(nil)
	assert.Len(t, base.Columns, 2)
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.SetColumn(Column{Name: "active", Style: "gray"})
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "indent: 3")
	assert.Contains(t, string(out), "- name: active")

	cfg2, err := Load(writeFile(t, "c.yaml", string(out)))
	require.NoError(t, err)
	assert.Equal(t, cfg.Columns, cfg2.Columns)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Empty(t, ResolvePath(""))

	dir := filepath.Join(xdg, "ctable")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("indent: 1\n"), 0o600))
	assert.Equal(t, path, ResolvePath(""))
}
