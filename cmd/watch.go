package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/argen/pkg/action/watch"
)

func init() {
	rootCmd.AddCommand(NewWatchCommand())
}

func NewWatchCommand() *cobra.Command {
	// watchCmd represents the argen watch command
	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "regenerate on header changes",
		Long:  "Generate once, then regenerate whenever a listed header or the config list changes, until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			if err := viper.BindPFlag("debounce", c.Flags().Lookup("debounce")); err != nil {
				return err
			}
			w, err := watch.New(opts, viper.GetDuration("debounce"), slog.Default())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	optionFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period after the last change before regenerating")

	return watchCmd
}
