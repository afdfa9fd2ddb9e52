package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ctable/pkg/table"
)

func newCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := NewCompiler()
	require.NoError(t, err)
	return c
}

func TestCompile(t *testing.T) {
	c := newCompiler(t)

	tests := []struct {
		name  string
		expr  string
		input any
		want  any
	}{
		{name: "yes for true", expr: `value ? "Yes" : "No"`, input: true, want: "Yes"},
		{name: "no for false", expr: `value ? "Yes" : "No"`, input: false, want: "No"},
		{name: "underscore alias", expr: `_ + 1`, input: 41, want: int64(42)},
		{name: "string extension", expr: `value.upperAscii()`, input: "anna", want: "ANNA"},
		{name: "decorated input unwrapped", expr: `size(value)`, input: table.Decorate("Anna", strings.ToUpper), want: int64(4)},
		{name: "record input", expr: `value.name`, input: table.NewRecord("name", "x"), want: "x"},
		{name: "list result", expr: `[value, value]`, input: "a", want: []any{"a", "a"}},
		{name: "map result", expr: `{"k": value}`, input: 1, want: map[string]any{"k": int64(1)}},
		{name: "encoder extension", expr: `base64.encode(bytes(value))`, input: "hi", want: "aGk="},
		{name: "null result", expr: `null`, input: 1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := c.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr(tt.input))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	c := newCompiler(t)
	for _, expr := range []string{"", "   ", "value +", "unknownVar > 1"} {
		t.Run(expr, func(t *testing.T) {
			_, err := c.Compile(expr)
			require.Error(t, err)
		})
	}
}

func TestEvaluationFailureYieldsNil(t *testing.T) {
	c := newCompiler(t)
	tr, err := c.Compile(`value.missing`)
	require.NoError(t, err)
	assert.Nil(t, tr(map[string]any{"other": 1}))

	_, err = c.Eval(`value / 0`, 1)
	require.Error(t, err)
}

func TestCompiledTransformInTable(t *testing.T) {
	c := newCompiler(t)
	yesNo, err := c.Compile(`value ? "Yes" : "No"`)
	require.NoError(t, err)

	records := []table.Record{
		table.NewRecord("name", "John", "active", true),
		table.NewRecord("name", "Anna", "active", false),
		table.NewRecord("name", "Peter"),
	}
	f := table.New(table.WithSettings(table.Settings{Indent: 0, RowSpace: 1}))
	out := f.RenderString(t.Context(), records, "lr", []table.Transform{nil, yesNo})
	assert.Equal(t, "name  active\n----- ------\nJohn     Yes\nAnna      No\nPeter       \n", out)
}

func TestParseSpecs(t *testing.T) {
	got, err := ParseSpecs([]string{"active=value ? 1 : 0", " name =x==y", "active=value"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"active": "value", "name": "x==y"}, got)

	for _, bad := range []string{"noequals", "=expr"} {
		_, err := ParseSpecs([]string{bad})
		require.Error(t, err, bad)
	}
}

func TestFunctions(t *testing.T) {
	funcs := newCompiler(t).Functions()
	require.NotEmpty(t, funcs)
	joined := strings.Join(funcs, "\n")
	assert.Contains(t, joined, "upperAscii()")
	assert.Contains(t, joined, "filter() - macro")
	assert.NotContains(t, joined, "_+_")
	assert.IsNonDecreasing(t, funcs)
}
