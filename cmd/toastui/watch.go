package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/adapter/output"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/toast"
)

var watchOpts struct {
	format string
	stack  string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print shown and dismissed events from every host",
	Long: `Listen for toast-show and toast-dismiss events on the session bus and
print one line per event until interrupted.

Examples:
  toastui watch
  toastui watch --format json | jq 'select(.event == "toast-dismiss")'`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOpts.format, "format", "f", string(output.FormatPlain),
		"Output format (plain, json)")
	watchCmd.Flags().StringVar(&watchOpts.stack, "stack", "",
		"Only print events from this stack id")
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(watchOpts.format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor, err := dbus.NewMonitor(logger)
	if err != nil {
		return err
	}
	defer func() { _ = monitor.Close() }()

	out := cmd.OutOrStdout()
	err = monitor.Run(ctx, func(ev toast.Event) {
		if watchOpts.stack != "" && ev.Stack != watchOpts.stack {
			return
		}
		if err := output.WriteEvent(out, format, ev); err != nil {
			logger.Warn("failed to write event", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
