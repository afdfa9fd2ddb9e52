// Package table renders records as aligned, padded text tables for the
// terminal. Column widths are measured on visible text only, so values may
// carry ANSI decoration without breaking alignment.
//
// A minimal use mirrors a console.table call:
//
//	table.Print(records, "llr", nil, nil, yesNo)
package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/ctable/pkg/logger"
)

// Transform maps a raw cell value to the value that is displayed. A nil
// Transform leaves the column untouched.
type Transform func(any) any

// ColumnOption carries optional per-column limits keyed by heading.
type ColumnOption struct {
	// MaxWidth caps the column width; longer cells are truncated with an
	// ellipsis. 0 means no cap.
	MaxWidth int `yaml:"maxWidth" toml:"maxWidth" json:"maxWidth"`
}

// Formatter renders tables. The zero value is not usable; create one with New.
type Formatter struct {
	out      io.Writer
	settings *Settings
	columns  map[string]ColumnOption
	log      *logr.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithSettings pins the formatter to s instead of the process-wide defaults.
func WithSettings(s Settings) Option {
	return func(f *Formatter) {
		f.settings = &s
	}
}

// WithWriter sets the destination of rendered lines. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.out = w
	}
}

// WithColumnOptions sets per-heading column limits.
func WithColumnOptions(opts map[string]ColumnOption) Option {
	return func(f *Formatter) {
		f.columns = opts
	}
}

// WithLogger overrides the logger taken from the render context.
func WithLogger(l logr.Logger) Option {
	return func(f *Formatter) {
		f.log = &l
	}
}

// New creates a Formatter writing to stdout.
func New(opts ...Option) *Formatter {
	f := &Formatter{out: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Settings returns the settings the next render will use.
func (f *Formatter) Settings() Settings {
	if f.settings != nil {
		return *f.settings
	}
	return Defaults()
}

// Print renders records to stdout using the process-wide defaults.
func Print(records []Record, align string, transforms ...Transform) error {
	return New().Render(context.Background(), records, align, transforms)
}

// Render writes the header line, the separator line and one line per record.
// align holds one alignment code per heading; transforms are applied
// positionally in heading order and see "" for absent keys. A column is as
// wide as its widest heading, raw value or transformed value. Only write
// errors are returned.
func (f *Formatter) Render(ctx context.Context, records []Record, align string, transforms []Transform) error {
	for _, line := range f.lines(ctx, records, align, transforms) {
		if _, err := io.WriteString(f.out, line+"\n"); err != nil {
			return fmt.Errorf("write table line: %w", err)
		}
	}
	return nil
}

// RenderString returns the rendered table, one trailing newline per line.
func (f *Formatter) RenderString(ctx context.Context, records []Record, align string, transforms []Transform) string {
	var b strings.Builder
	for _, line := range f.lines(ctx, records, align, transforms) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Formatter) lines(ctx context.Context, records []Record, align string, transforms []Transform) []string {
	log := f.logger(ctx)
	s := f.Settings()
	indent := spaces(s.Indent)
	sep := spaces(s.RowSpace)
	aligns := ParseAlignment(align)

	headings := Headings(records)
	headers := make([]cell, len(headings))
	for i, h := range headings {
		headers[i] = newCell(h)
	}
	widths := make([]int, len(headings))
	for i, h := range headers {
		widths[i] = h.width
	}
	rows := make([][]cell, len(records))
	for r, rec := range records {
		row := make([]cell, len(headings))
		for i, h := range headings {
			val, ok := rec.Get(h)
			if !ok {
				val = ""
			}
			raw := newCell(val)
			widths[i] = max(widths[i], raw.width)
			if i < len(transforms) && transforms[i] != nil {
				row[i] = newCell(applyTransform(log, transforms[i], h, val))
			} else {
				row[i] = raw
			}
			widths[i] = max(widths[i], row[i].width)
		}
		rows[r] = row
	}

	for i, h := range headings {
		limit := f.columns[h].MaxWidth
		if limit <= 0 || widths[i] <= limit {
			continue
		}
		widths[i] = limit
		headers[i] = truncateCell(headers[i], limit)
		for _, row := range rows {
			row[i] = truncateCell(row[i], limit)
		}
	}
	log.V(1).Info("rendering table", "headings", len(headings), "records", len(records), "indent", s.Indent, "rowSpace", s.RowSpace)

	lines := make([]string, 0, len(records)+2)
	parts := make([]string, len(headings))
	for i := range headings {
		parts[i] = pad(headers[i], widths[i], aligns.At(i))
	}
	lines = append(lines, indent+strings.Join(parts, sep))
	for i := range headings {
		parts[i] = strings.Repeat("-", widths[i])
	}
	lines = append(lines, indent+strings.Join(parts, sep))
	for _, row := range rows {
		for i := range headings {
			parts[i] = pad(row[i], widths[i], aligns.At(i))
		}
		lines = append(lines, indent+strings.Join(parts, sep))
	}
	return lines
}

func (f *Formatter) logger(ctx context.Context) logr.Logger {
	if f.log != nil {
		return *f.log
	}
	return *logger.FromContext(ctx)
}

// applyTransform runs t on val. A panicking transform or a falsy result keeps
// the original value.
func applyTransform(log logr.Logger, t Transform, heading string, val any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			log.V(1).Info("column transform panicked, using raw value", "heading", heading, "panic", fmt.Sprint(r))
			out = val
		}
	}()
	res := t(val)
	if !Truthy(res) {
		return val
	}
	return res
}

// Headings returns the union of all record keys in first-appearance order.
func Headings(records []Record) []string {
	seen := make(map[string]bool)
	var headings []string
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				headings = append(headings, k)
			}
		}
	}
	return headings
}

// ColumnWidths returns the visible width of every heading's column: the
// widest of the heading itself and each record's value for it. Records
// without the key do not contribute.
func ColumnWidths(headings []string, records []Record) map[string]int {
	widths := make(map[string]int, len(headings))
	for _, h := range headings {
		widths[h] = newCell(h).width
	}
	for _, rec := range records {
		for _, h := range headings {
			val, ok := rec.Get(h)
			if !ok {
				continue
			}
			if w := newCell(val).width; w > widths[h] {
				widths[h] = w
			}
		}
	}
	return widths
}

// ToLength pads value to width with spaces according to align. Empty values
// become a run of spaces; decoration in value is kept but not counted.
// Only nil and values with an empty display form are empty: false and 0
// print as "false" and "0", where console.table-style formatters that test
// truthiness would leave them blank.
func ToLength(value any, width int, align Alignment) string {
	return pad(newCell(value), width, align)
}

func pad(c cell, width int, align Alignment) string {
	if c.empty() {
		return spaces(width)
	}
	diff := c.width - width
	if diff < 0 {
		diff = -diff
	}
	switch align {
	case AlignRight:
		return spaces(diff) + c.rendered
	case AlignCenter:
		return spaces(diff-diff/2) + c.rendered + spaces(diff/2)
	default:
		return c.rendered + spaces(diff)
	}
}

func truncateCell(c cell, limit int) cell {
	if c.width <= limit {
		return c
	}
	tail := "..."
	if limit < len(tail) {
		tail = ""
	}
	s := ansi.Truncate(c.rendered, limit, tail)
	return cell{rendered: s, width: lipgloss.Width(s)}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
