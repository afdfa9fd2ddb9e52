// Package settings provides build metadata, per-run CLI configuration, and
// context helpers used across the ctable CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "ctable"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds the commit hash, version and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single CLI invocation.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	// InputPath is the data file, or "-" for stdin.
	InputPath string
	// ConfigPath is the resolved config file; empty when none was found.
	ConfigPath string
}

// NewCliParams returns the defaults for a CLI run: info logging, colour on,
// input from stdin.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		NoColor:     false,
		InputPath:   "-",
	}
}

// ReadsStdin reports whether input comes from standard input.
func (r *Run) ReadsStdin() bool {
	return r.InputPath == "" || r.InputPath == "-"
}
