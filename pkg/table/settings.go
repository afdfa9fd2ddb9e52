package table

import "sync/atomic"

// Settings controls the whitespace around table cells.
type Settings struct {
	// Indent is the number of spaces written before every line.
	Indent int `yaml:"indent" toml:"indent" json:"indent"`
	// RowSpace is the number of spaces between adjacent columns.
	RowSpace int `yaml:"rowSpace" toml:"rowSpace" json:"rowSpace"`
}

// DefaultSettings returns the built-in settings: indent 3, row space 1.
func DefaultSettings() Settings {
	return Settings{Indent: 3, RowSpace: 1}
}

var defaults atomic.Pointer[Settings]

//nolint:gochecknoinits // seed process-wide defaults for package consumers
func init() {
	s := DefaultSettings()
	defaults.Store(&s)
}

// SetDefaults replaces the process-wide settings used by formatters created
// without WithSettings. The value is stored as given; nothing is merged with
// the previous settings. Output already written is unaffected.
func SetDefaults(s Settings) {
	defaults.Store(&s)
}

// Defaults returns the current process-wide settings.
func Defaults() Settings {
	return *defaults.Load()
}
