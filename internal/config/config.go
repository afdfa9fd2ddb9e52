// Package config loads ctable's configuration: table settings, the default
// alignment and per-column options. Files may be YAML or TOML; the user file
// is merged on top of the embedded defaults.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/ctable/pkg/settings"
	"github.com/oakwood-commons/ctable/pkg/style"
	"github.com/oakwood-commons/ctable/pkg/table"
)

//go:embed default.yaml
var defaultYAML []byte

// Column holds options for one heading.
type Column struct {
	Name      string `yaml:"name" toml:"name" json:"name"`
	Transform string `yaml:"transform,omitempty" toml:"transform,omitempty" json:"transform,omitempty"`
	Style     string `yaml:"style,omitempty" toml:"style,omitempty" json:"style,omitempty"`
	MaxWidth  int    `yaml:"maxWidth,omitempty" toml:"maxWidth,omitempty" json:"maxWidth,omitempty"`
}

// File is the on-disk configuration. Nil pointers mean "not set" so a
// partial file can be merged over the defaults.
type File struct {
	Indent   *int     `yaml:"indent,omitempty" toml:"indent,omitempty" json:"indent,omitempty"`
	RowSpace *int     `yaml:"rowSpace,omitempty" toml:"rowSpace,omitempty" json:"rowSpace,omitempty"`
	Align    string   `yaml:"align" toml:"align" json:"align"`
	Columns  []Column `yaml:"columns" toml:"columns" json:"columns"`
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Default returns the embedded defaults.
func Default() *File {
	f, err := decode(defaultYAML, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return f
}

// Load reads the file at path (TOML for a .toml extension, YAML otherwise),
// validates it and merges it over the defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	user, err := decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.Merge(user)
	return cfg, nil
}

func decode(data []byte, ext string) (*File, error) {
	var f File
	if strings.EqualFold(ext, ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
		return &f, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &f, nil
}

// Validate checks alignment codes, column names, styles and widths.
func (f *File) Validate() error {
	if err := table.ValidateAlignment(f.Align); err != nil {
		return &ValidationError{Field: "align", Err: err}
	}
	seen := make(map[string]bool, len(f.Columns))
	for i, c := range f.Columns {
		field := fmt.Sprintf("columns[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			return &ValidationError{Field: field + ".name", Err: errors.New("must not be empty")}
		}
		if seen[c.Name] {
			return &ValidationError{Field: field + ".name", Err: fmt.Errorf("duplicate column %q", c.Name)}
		}
		seen[c.Name] = true
		if c.MaxWidth < 0 {
			return &ValidationError{Field: field + ".maxWidth", Err: fmt.Errorf("must be non-negative, got %d", c.MaxWidth)}
		}
		if c.Style != "" {
			if _, err := style.Parse(c.Style); err != nil {
				return &ValidationError{Field: field + ".style", Err: err}
			}
		}
	}
	return nil
}

// Merge overlays the values set in other onto f. Columns are matched by
// name; non-empty fields of other win.
func (f *File) Merge(other *File) {
	if other == nil {
		return
	}
	if other.Indent != nil {
		v := *other.Indent
		f.Indent = &v
	}
	if other.RowSpace != nil {
		v := *other.RowSpace
		f.RowSpace = &v
	}
	if other.Align != "" {
		f.Align = other.Align
	}
	for _, c := range other.Columns {
		f.SetColumn(c)
	}
}

// SetColumn merges c into the column with the same name, appending it when
// no such column exists.
func (f *File) SetColumn(c Column) {
	for i := range f.Columns {
		if f.Columns[i].Name != c.Name {
			continue
		}
		cur := &f.Columns[i]
		if c.Transform != "" {
			cur.Transform = c.Transform
		}
		if c.Style != "" {
			cur.Style = c.Style
		}
		if c.MaxWidth != 0 {
			cur.MaxWidth = c.MaxWidth
		}
		return
	}
	f.Columns = append(f.Columns, c)
}

// Column returns the options for heading name.
func (f *File) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Settings returns the table settings, falling back to the library defaults
// for unset values.
func (f *File) Settings() table.Settings {
	s := table.DefaultSettings()
	if f.Indent != nil {
		s.Indent = *f.Indent
	}
	if f.RowSpace != nil {
		s.RowSpace = *f.RowSpace
	}
	return s
}

// ColumnOptions returns the width caps keyed by heading.
func (f *File) ColumnOptions() map[string]table.ColumnOption {
	opts := make(map[string]table.ColumnOption)
	for _, c := range f.Columns {
		if c.MaxWidth > 0 {
			opts[c.Name] = table.ColumnOption{MaxWidth: c.MaxWidth}
		}
	}
	return opts
}

// YAML renders f for `ctable config`.
func (f *File) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResolvePath returns explicit when set, otherwise the XDG config path (or
// ~/.config/ctable/config.yaml) when that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
