package table

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"charm.land/lipgloss/v2"
)

// Decorator wraps visible text in terminal styling. The returned string may
// contain escape sequences; they never count toward column width.
type Decorator func(string) string

// DecoratedText pairs visible content with the decoration used to render it.
type DecoratedText struct {
	Text     string
	Decorate Decorator
}

// Decorate returns text wrapped by dec.
func Decorate(text string, dec Decorator) DecoratedText {
	return DecoratedText{Text: text, Decorate: dec}
}

// VisibleWidth is the terminal width of the undecorated text.
func (d DecoratedText) VisibleWidth() int {
	return lipgloss.Width(d.Text)
}

// Rendered returns the decorated form written to the terminal.
func (d DecoratedText) Rendered() string {
	if d.Decorate == nil || d.Text == "" {
		return d.Text
	}
	return d.Decorate(d.Text)
}

// String implements fmt.Stringer with the rendered form.
func (d DecoratedText) String() string {
	return d.Rendered()
}

// cell is a value coerced to its display form. width is always measured on
// the visible text, so the same number is used for column sizing and padding.
type cell struct {
	rendered string
	width    int
}

func newCell(v any) cell {
	switch t := v.(type) {
	case DecoratedText:
		return cell{rendered: t.Rendered(), width: t.VisibleWidth()}
	case *DecoratedText:
		if t == nil {
			return cell{}
		}
		return cell{rendered: t.Rendered(), width: t.VisibleWidth()}
	}
	s := Stringify(v)
	return cell{rendered: s, width: lipgloss.Width(s)}
}

func (c cell) empty() bool {
	return c.rendered == ""
}

// Stringify returns the single-line display form of v. Strings pass through
// (with line breaks flattened), scalars use fmt, and maps, slices and structs
// are rendered as compact JSON.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return flattenLineBreaks(t)
	case DecoratedText:
		return t.Rendered()
	case Record:
		return Stringify(t.Map())
	case fmt.Stringer:
		return flattenLineBreaks(t.String())
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t)
	case map[string]any, []any:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only composite kinds need JSON
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return ""
		}
		return Stringify(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", v)
}

// flattenLineBreaks keeps table rows on a single line.
func flattenLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}

// Truthy reports whether a transform result replaces the value it was given.
// nil, false, "", numeric zero and nil pointers do not; the original value is
// kept instead.
func Truthy(v any) bool {
	return !falsy(v)
}

func falsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // everything else is truthy
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
