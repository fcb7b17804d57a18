package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/logging"
	"github.com/jmylchreest/toastui/internal/tui"
)

var tuiOpts struct {
	noBus   bool
	logFile string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal toast host",
	Long: `Run a toast stack inside the terminal.

The stack is exported on the session bus, so 'toastui show' and friends
can drive it from another shell.

Key bindings:
  n           Compose a new toast (tab cycles the variant)
  j/k, ↑/↓    Move the selection
  x           Dismiss the selected toast
  y           Copy the selected message to the clipboard
  C           Clear the stack
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.noBus, "no-bus", false,
		"Do not export the stack on the session bus")
	tuiCmd.Flags().StringVar(&tuiOpts.logFile, "log-file", "",
		"Write logs to this file instead of discarding them")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	// The terminal belongs to bubbletea, so logs go to a file or nowhere.
	tuiLogger := logging.Discard()
	if tuiOpts.logFile != "" {
		f, err := os.OpenFile(config.ExpandPath(tuiOpts.logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		tuiLogger = logging.New(f, globalOpts.verbose)
	}

	return tui.Run(ctx, tui.RunOptions{
		Holder:     config.NewHolder(cfg),
		ConfigPath: configPath(),
		Bus:        !tuiOpts.noBus,
		Logger:     tuiLogger,
	})
}
