// Package query selects the records to tabulate from a larger document with a
// jq program.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq program.
type Query struct {
	src  string
	code *gojq.Code
}

// Compile parses and compiles expr.
func Compile(expr string) (*Query, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("invalid --query: empty expression")
	}
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, invalidQueryErr(err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, invalidQueryErr(err)
	}
	return &Query{src: expr, code: code}, nil
}

// String returns the source expression.
func (q *Query) String() string {
	return q.src
}

// Run evaluates q against every document and collects all emitted values.
func (q *Query) Run(ctx context.Context, docs ...any) ([]any, error) {
	var results []any
	for _, doc := range docs {
		normalized, err := normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		iter := q.code.RunWithContext(ctx, normalized)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				return nil, fmt.Errorf("query error: %s", safeErrorMessage(err))
			}
			results = append(results, v)
		}
	}
	return results, nil
}

// Run compiles expr and evaluates it against docs.
func Run(ctx context.Context, expr string, docs ...any) ([]any, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Run(ctx, docs...)
}

// normalize converts decoded YAML/TOML values (timestamps, int64, non-string
// map keys) into the JSON-shaped values gojq accepts.
func normalize(v any) (any, error) {
	data, err := json.Marshal(jsonSafe(v))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonSafe rewrites map[any]any, which encoding/json rejects.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[fmt.Sprint(k)] = jsonSafe(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = jsonSafe(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = jsonSafe(elem)
		}
		return out
	}
	return v
}

func invalidQueryErr(err error) error {
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "unexpected eof") {
		return fmt.Errorf("invalid --query: %w\nHint: query looks incomplete; quote it fully", err)
	}
	return fmt.Errorf("invalid --query: %w", err)
}

// safeErrorMessage guards against gojq runtime errors whose Error method
// panics on unusual values.
func safeErrorMessage(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()
	msg = strings.TrimSpace(err.Error())
	if msg == "" {
		return fmt.Sprintf("%T", err)
	}
	return msg
}
