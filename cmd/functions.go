package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ctable/internal/transform"
)

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the CEL functions available to --transform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			compiler, err := transform.NewCompiler()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, fn := range compiler.Functions() {
				if _, err := fmt.Fprintln(out, fn); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
