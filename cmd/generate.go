package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/argen/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the argen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate module reflection sources",
		Long: "Parse the headers of one module, resolve its types and write the reflection " +
			"registration, Lua bindings, type resolvers and the global type id and dependency tables. " +
			"Files whose content did not change are left untouched.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			changes, err := generate.Generate(opts, slog.Default())
			if err != nil {
				return err
			}
			for _, ch := range changes {
				_, _ = fmt.Fprintf(c.OutOrStdout(), "%-6s %s\n", ch.Op, ch.Path)
			}
			return nil
		},
	}
	optionFlags(generateCmd.Flags())

	return generateCmd
}
