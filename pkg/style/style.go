// Package style turns decoration names such as "gray" or "bold+red" into
// table decorators, and provides the colour-aware writer tables are printed
// through.
package style

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/muesli/termenv"

	"github.com/oakwood-commons/ctable/pkg/table"
)

var ansi256 = regexp.MustCompile(`^[0-9]{1,3}$`)
var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// named colours use the 16-colour ANSI palette so they follow the user's
// terminal theme.
var colors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

var attributes = map[string]func(lipgloss.Style) lipgloss.Style{
	"bold":          func(s lipgloss.Style) lipgloss.Style { return s.Bold(true) },
	"faint":         func(s lipgloss.Style) lipgloss.Style { return s.Faint(true) },
	"italic":        func(s lipgloss.Style) lipgloss.Style { return s.Italic(true) },
	"underline":     func(s lipgloss.Style) lipgloss.Style { return s.Underline(true) },
	"strikethrough": func(s lipgloss.Style) lipgloss.Style { return s.Strikethrough(true) },
	"reverse":       func(s lipgloss.Style) lipgloss.Style { return s.Reverse(true) },
}

// Parse builds a lipgloss style from a "+"-separated list of names. Each
// part is an attribute (bold, italic, ...), a colour name, an ANSI-256 index
// or a #rrggbb hex colour. A part prefixed with "bg:" sets the background.
func Parse(spec string) (lipgloss.Style, error) {
	st := lipgloss.NewStyle()
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return st, fmt.Errorf("empty style")
	}
	for _, part := range strings.Split(spec, "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		background := false
		if rest, ok := strings.CutPrefix(part, "bg:"); ok {
			background = true
			part = rest
		}
		if apply, ok := attributes[part]; ok && !background {
			st = apply(st)
			continue
		}
		c, err := parseColor(part)
		if err != nil {
			return st, fmt.Errorf("style %q: %w", spec, err)
		}
		if background {
			st = st.Background(c)
		} else {
			st = st.Foreground(c)
		}
	}
	return st, nil
}

func parseColor(name string) (color.Color, error) {
	if code, ok := colors[name]; ok {
		name = code
	}
	if ansi256.MatchString(name) || hexColor.MatchString(name) {
		return lipgloss.Color(name), nil
	}
	return nil, fmt.Errorf("unknown colour or attribute %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the attribute and colour names Parse understands.
func Names() []string {
	out := make([]string, 0, len(colors)+len(attributes))
	for k := range attributes {
		out = append(out, k)
	}
	for k := range colors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Named returns a decorator rendering text with the style described by spec.
func Named(spec string) (table.Decorator, error) {
	st, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	return Decorator(st), nil
}

// Decorator adapts a lipgloss style to a table decorator.
func Decorator(st lipgloss.Style) table.Decorator {
	return func(s string) string {
		return st.Render(s)
	}
}

// Transform wraps a column's values in dec. The visible text is the value's
// display form, so width is unaffected by the decoration.
func Transform(dec table.Decorator) table.Transform {
	return func(v any) any {
		if d, ok := v.(table.DecoratedText); ok {
			inner := d.Decorate
			return table.DecoratedText{Text: d.Text, Decorate: func(s string) string {
				if inner != nil {
					s = inner(s)
				}
				return dec(s)
			}}
		}
		return table.Decorate(table.Stringify(v), dec)
	}
}

// Chain runs transforms left to right, feeding each result into the next.
// nil entries are skipped. A result that is not table.Truthy keeps the
// previous value, so a later stage never decorates an empty result.
func Chain(ts ...table.Transform) table.Transform {
	var live []table.Transform
	for _, t := range ts {
		if t != nil {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(v any) any {
		for _, t := range live {
			if out := t(v); table.Truthy(out) {
				v = out
			}
		}
		return v
	}
}

// ColorDisabled reports whether decoration should be stripped: when noColor
// is set or the environment asks for it (NO_COLOR, CLICOLOR=0).
func ColorDisabled(noColor bool) bool {
	return noColor || termenv.EnvNoColor()
}

// NewWriter wraps w so escape sequences are downsampled to what the terminal
// supports, or removed entirely when colour is disabled.
func NewWriter(w io.Writer, noColor bool) io.Writer {
	cw := colorprofile.NewWriter(w, os.Environ())
	if ColorDisabled(noColor) {
		cw.Profile = colorprofile.NoTTY
	}
	return cw
}
