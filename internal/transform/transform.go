// Package transform compiles CEL expressions into column transforms. The cell
// value is bound to the variable "value" (and "_" for parity with query
// expressions), so `value ? "Yes" : "No"` or `value.upperAscii()` are valid.
package transform

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/ctable/pkg/table"
)

// Compiler turns expressions into table.Transform values sharing one CEL
// environment.
type Compiler struct {
	env *cel.Env
	log logr.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used to report evaluation failures.
func WithLogger(l logr.Logger) Option {
	return func(c *Compiler) {
		c.log = l
	}
}

// NewCompiler creates a compiler with the strings, encoders, lists and math
// extension libraries loaded.
func NewCompiler(opts ...Option) (*Compiler, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	c := &Compiler{env: env, log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 6+len(opts))
	allOpts = append(allOpts,
		cel.Variable("value", cel.DynType),
		cel.Variable("_", cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Compile parses and checks expr. The returned transform yields nil when
// evaluation fails, which makes the table fall back to the raw value.
func (c *Compiler) Compile(expr string) (table.Transform, error) {
	prg, err := c.program(expr)
	if err != nil {
		return nil, err
	}
	return func(v any) any {
		out, err := eval(prg, v)
		if err != nil {
			c.log.V(1).Info("transform evaluation failed", "expression", expr, "error", err.Error())
			return nil
		}
		return out
	}, nil
}

// Eval compiles and runs expr once against v.
func (c *Compiler) Eval(expr string, v any) (any, error) {
	prg, err := c.program(expr)
	if err != nil {
		return nil, err
	}
	return eval(prg, v)
}

func (c *Compiler) program(expr string) (cel.Program, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error in %q: %w", expr, issues.Err())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error in %q: %w", expr, err)
	}
	return prg, nil
}

func eval(prg cel.Program, v any) (any, error) {
	in := input(v)
	result, _, err := prg.Eval(map[string]any{
		"value": in,
		"_":     in,
	})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// input unwraps table types CEL cannot see into plain values.
func input(v any) any {
	switch t := v.(type) {
	case table.DecoratedText:
		return t.Text
	case *table.DecoratedText:
		if t == nil {
			return nil
		}
		return t.Text
	case table.Record:
		return t.Map()
	}
	return v
}

// ToGo converts a CEL value to plain Go values, recursing into lists and maps.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	valuer, ok := val.(interface{ Value() any })
	if !ok {
		return val
	}
	return plain(valuer.Value())
}

func plain(v any) any {
	switch t := v.(type) {
	case ref.Val:
		return ToGo(t)
	case []ref.Val:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = plain(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = plain(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[fmt.Sprint(ToGo(k))] = ToGo(elem)
		}
		return out
	}
	return v
}

// ParseSpec splits a "column=value" flag argument at the first '='.
func ParseSpec(spec string) (column, value string, err error) {
	column, value, ok := strings.Cut(spec, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return "", "", fmt.Errorf("invalid column spec %q: expected column=value", spec)
	}
	return column, value, nil
}

// ParseSpecs parses repeated "column=value" arguments. Later entries for the
// same column replace earlier ones.
func ParseSpecs(specs []string) (map[string]string, error) {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		col, val, err := ParseSpec(s)
		if err != nil {
			return nil, err
		}
		out[col] = val
	}
	return out, nil
}
