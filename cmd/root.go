// Package cmd implements the ctable command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/ctable/internal/config"
	"github.com/oakwood-commons/ctable/internal/limiter"
	"github.com/oakwood-commons/ctable/internal/query"
	"github.com/oakwood-commons/ctable/internal/transform"
	"github.com/oakwood-commons/ctable/pkg/loader"
	"github.com/oakwood-commons/ctable/pkg/logger"
	"github.com/oakwood-commons/ctable/pkg/settings"
	"github.com/oakwood-commons/ctable/pkg/style"
	"github.com/oakwood-commons/ctable/pkg/table"
)

// errShowHelp is returned by readInput when there is no file argument and
// stdin is a terminal.
var errShowHelp = errors.New("no input provided")

type rootOptions struct {
	align      alignValue
	indent     int
	rowSpace   int
	transforms *columnValues
	styles     *columnValues
	maxWidths  *widthValues
	query      string
	limit      limiter.Config
	configFile string
	noColor    bool
	debug      bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		transforms: newColumnValues(nil),
		styles:     newColumnValues(validateStyle),
		maxWidths:  newWidthValues(),
	}
	defaults := table.DefaultSettings()

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Print JSON, YAML, NDJSON or TOML records as an aligned text table",
		Long: `ctable prints a list of records as a plain-text table: a header line, a dashed
separator line and one padded line per record. Headings are the union of all
record keys in first-appearance order. Cell widths ignore ANSI decoration, so
styled columns stay aligned.

Input is read from the file argument or from stdin.`,
		Example: `  ctable employees.json -a llr
  ctable employees.yaml -t 'active=value ? "Yes" : "No"' -s 'first name=gray'
  kubectl get pods -o json | ctable -q '[.items[] | {name: .metadata.name, phase: .status.phase}]'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level int8
			if opts.debug {
				level = -1
			}
			run := settings.NewCliParams()
			run.MinLogLevel = level
			run.NoColor = opts.noColor
			run.ConfigPath = config.ResolvePath(opts.configFile)
			if len(args) > 0 {
				run.InputPath = args[0]
			}

			lgr := logger.Get(level)
			lgr = logger.WithValues(lgr, logger.CommandKey, cmd.Name(), logger.InputKey, run.InputPath)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.VarP(&opts.align, "align", "a", `alignment codes, one per column: l, r or c (e.g. "llr")`)
	f.IntVar(&opts.indent, "indent", defaults.Indent, "spaces before each line")
	f.IntVar(&opts.rowSpace, "row-space", defaults.RowSpace, "spaces between columns")
	f.VarP(opts.transforms, "transform", "t", `CEL transform for a column, e.g. 'active=value ? "Yes" : "No"' (repeatable)`)
	f.VarP(opts.styles, "style", "s", "decoration for a column, e.g. 'name=bold+cyan' (repeatable)")
	f.Var(opts.maxWidths, "max-width", "width cap for a column, e.g. 'description=30' (repeatable)")
	f.StringVarP(&opts.query, "query", "q", "", "jq expression selecting the records inside a larger document")
	f.IntVar(&opts.limit.Limit, "limit", 0, "show only the first N records")
	f.IntVar(&opts.limit.Offset, "offset", 0, "skip the first N records")
	f.IntVar(&opts.limit.Tail, "tail", 0, "show only the last N records (mutually exclusive with --limit; ignores --offset)")
	f.BoolVar(&opts.noColor, "no-color", false, "strip colour and styling from the output")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config-file", "", "path to a YAML or TOML config file (default $XDG_CONFIG_HOME/ctable/config.yaml)")
	pf.BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")

	cmd.AddCommand(newVersionCmd(), newConfigCmd(), newFunctionsCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTable(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	if err := opts.limit.Validate(); err != nil {
		return fmt.Errorf("record limiting error: %w", err)
	}

	cfg, err := loadConfig(run.ConfigPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	input, err := readInput(cmd, run)
	if errors.Is(err, errShowHelp) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}

	records, err := loadRecords(ctx, input, opts.query)
	if err != nil {
		return err
	}
	if opts.limit.IsActive() {
		records = opts.limit.Apply(records)
	}

	headings := table.Headings(records)
	compiler, err := transform.NewCompiler(transform.WithLogger(*log))
	if err != nil {
		return err
	}
	transforms, err := columnTransforms(headings, cfg, compiler)
	if err != nil {
		return err
	}
	for _, name := range unmatchedColumns(headings, cfg) {
		log.V(1).Info("column option matches no heading", "column", name)
	}
	log.V(1).Info("rendering records", "records", len(records), "headings", len(headings), "config", run.ConfigPath)

	f := table.New(
		table.WithSettings(cfg.Settings()),
		table.WithWriter(style.NewWriter(cmd.OutOrStdout(), run.NoColor)),
		table.WithColumnOptions(cfg.ColumnOptions()),
	)
	return f.Render(ctx, records, cfg.Align, transforms)
}

func loadConfig(path string) (*config.File, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlags overlays explicitly set flags onto cfg; flags win over the
// config file.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.File) {
	flags := cmd.Flags()
	if flags.Changed("indent") {
		v := opts.indent
		cfg.Indent = &v
	}
	if flags.Changed("row-space") {
		v := opts.rowSpace
		cfg.RowSpace = &v
	}
	if flags.Changed("align") {
		cfg.Align = string(opts.align)
	}
	for _, col := range opts.transforms.Columns() {
		v, _ := opts.transforms.Get(col)
		cfg.SetColumn(config.Column{Name: col, Transform: v})
	}
	for _, col := range opts.styles.Columns() {
		v, _ := opts.styles.Get(col)
		cfg.SetColumn(config.Column{Name: col, Style: v})
	}
	for _, col := range opts.maxWidths.Columns() {
		n, ok := opts.maxWidths.Width(col)
		if !ok {
			continue
		}
		cfg.SetColumn(config.Column{Name: col, MaxWidth: n})
	}
}

func readInput(cmd *cobra.Command, run *settings.Run) (string, error) {
	if !run.ReadsStdin() {
		data, err := os.ReadFile(run.InputPath)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", run.InputPath, err)
		}
		return string(data), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errShowHelp
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(data), nil
}

func loadRecords(ctx context.Context, input, expr string) ([]table.Record, error) {
	if strings.TrimSpace(expr) == "" {
		records, err := loader.LoadRecords(input)
		if err != nil {
			return nil, fmt.Errorf("load input: %w", err)
		}
		return records, nil
	}
	q, err := query.Compile(expr)
	if err != nil {
		return nil, err
	}
	docs, err := loader.Documents(input)
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	results, err := q.Run(ctx, docs...)
	if err != nil {
		return nil, err
	}
	return loader.RecordsFromValues(results), nil
}

// columnTransforms builds the positional transform list for headings: the
// column's CEL expression runs first, then its decoration.
func columnTransforms(headings []string, cfg *config.File, compiler *transform.Compiler) ([]table.Transform, error) {
	transforms := make([]table.Transform, len(headings))
	for i, h := range headings {
		col, ok := cfg.Column(h)
		if !ok {
			continue
		}
		var expr, deco table.Transform
		if col.Transform != "" {
			t, err := compiler.Compile(col.Transform)
			if err != nil {
				return nil, fmt.Errorf("--transform %s: %w", h, err)
			}
			expr = t
		}
		if col.Style != "" {
			dec, err := style.Named(col.Style)
			if err != nil {
				return nil, fmt.Errorf("--style %s: %w", h, err)
			}
			deco = style.Transform(dec)
		}
		transforms[i] = style.Chain(expr, deco)
	}
	return transforms, nil
}

func unmatchedColumns(headings []string, cfg *config.File) []string {
	present := make(map[string]bool, len(headings))
	for _, h := range headings {
		present[h] = true
	}
	missing := make(map[string]bool)
	for _, c := range cfg.Columns {
		if !present[c.Name] {
			missing[c.Name] = true
		}
	}
	return sortedKeys(missing)
}
