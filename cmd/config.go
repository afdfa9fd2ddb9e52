package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ctable/internal/config"
	"github.com/oakwood-commons/ctable/pkg/logger"
	"github.com/oakwood-commons/ctable/pkg/settings"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the embedded defaults merged with the config file, if any. The output
is a valid config file and can be used as a starting point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			run := settings.FromContextOrDefault(ctx)
			logger.FromContext(ctx).V(1).Info("showing config", "path", run.ConfigPath)

			if run.ConfigPath == "" {
				_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
				return err
			}
			cfg, err := config.Load(run.ConfigPath)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
