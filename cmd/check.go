package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/argen/pkg/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	// checkCmd represents the argen check command
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "verify generated sources are up to date",
		Long: "Run the generator in memory and print a diff for every file that would change. " +
			"Exits non-zero when anything is out of date. Nothing is written.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			report, err := check.Run(opts, slog.Default())
			if report != nil && !report.Clean() {
				_, _ = fmt.Fprint(c.OutOrStdout(), report.Diff())
			}
			if errors.Is(err, check.ErrOutOfDate) {
				c.SilenceErrors = true
			}
			return err
		},
	}
	optionFlags(checkCmd.Flags())

	return checkCmd
}
