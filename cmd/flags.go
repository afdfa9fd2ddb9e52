package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/ctable/internal/transform"
	"github.com/oakwood-commons/ctable/pkg/style"
	"github.com/oakwood-commons/ctable/pkg/table"
)

var (
	_ pflag.Value = (*alignValue)(nil)
	_ pflag.Value = (*columnValues)(nil)
	_ pflag.Value = (*widthValues)(nil)
)

// alignValue is a pflag.Value that rejects unknown alignment codes at parse
// time.
type alignValue string

func (a *alignValue) String() string { return string(*a) }

func (a *alignValue) Set(s string) error {
	if err := table.ValidateAlignment(s); err != nil {
		return err
	}
	*a = alignValue(s)
	return nil
}

func (a *alignValue) Type() string { return "string" }

// columnValues collects repeated "column=value" flags. Later values for the
// same column replace earlier ones.
type columnValues struct {
	values   map[string]string
	order    []string
	validate func(string) error
}

func newColumnValues(validate func(string) error) *columnValues {
	return &columnValues{values: make(map[string]string), validate: validate}
}

func (c *columnValues) String() string {
	parts := make([]string, 0, len(c.order))
	for _, col := range c.order {
		parts = append(parts, col+"="+c.values[col])
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (c *columnValues) Set(spec string) error {
	col, val, err := transform.ParseSpec(spec)
	if err != nil {
		return err
	}
	if c.validate != nil {
		if err := c.validate(val); err != nil {
			return err
		}
	}
	if _, ok := c.values[col]; !ok {
		c.order = append(c.order, col)
	}
	c.values[col] = val
	return nil
}

func (c *columnValues) Type() string { return "column=value" }

// Columns returns the configured column names in first-seen order.
func (c *columnValues) Columns() []string {
	return append([]string(nil), c.order...)
}

func (c *columnValues) Get(col string) (string, bool) {
	v, ok := c.values[col]
	return v, ok
}

func validateStyle(v string) error {
	_, err := style.Parse(v)
	return err
}

func parseWidth(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("width %q is not a number", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("width must be non-negative, got %d", n)
	}
	return n, nil
}

// widthValues is a columnValues whose values are parsed as widths when the
// flag is set.
type widthValues struct {
	*columnValues
	widths map[string]int
}

func newWidthValues() *widthValues {
	return &widthValues{columnValues: newColumnValues(nil), widths: make(map[string]int)}
}

func (w *widthValues) Set(spec string) error {
	col, val, err := transform.ParseSpec(spec)
	if err != nil {
		return err
	}
	n, err := parseWidth(val)
	if err != nil {
		return err
	}
	if err := w.columnValues.Set(spec); err != nil {
		return err
	}
	w.widths[col] = n
	return nil
}

func (w *widthValues) Type() string { return "column=width" }

// Width returns the parsed width for col.
func (w *widthValues) Width(col string) (int, bool) {
	n, ok := w.widths[col]
	return n, ok
}

// sortedKeys is used where column order does not matter but output must be
// stable.
func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
