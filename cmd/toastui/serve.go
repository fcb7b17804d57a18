package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/adapter/output"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/toast"
)

var serveOpts struct {
	events string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a headless toast host",
	Long: `Run a toast stack without any display. Toasts are logged, audio cues
play, and the stack is exported on the session bus.

With --events, every shown and dismissed event is also written to stdout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.events, "events", "",
		"Write stack events to stdout (plain, json)")
}

func runServe(cmd *cobra.Command, args []string) error {
	var emitter toast.Emitter
	if serveOpts.events != "" {
		format, err := output.ParseFormat(serveOpts.events)
		if err != nil {
			return err
		}
		emitter = toast.EmitterFunc(func(ev toast.Event) {
			if err := output.WriteEvent(os.Stdout, format, ev); err != nil {
				logger.Warn("failed to write event", "error", err)
			}
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	holder := config.NewHolder(cfg)
	lp := loop.New(64, logger)
	renderer := toast.NewLogRenderer(lp, cfg.Display.ExitAnimation.Duration(), logger)
	mgr := toast.NewManager(renderer, lp, holder.Settings, logger)

	d := daemon.New(daemon.Options{
		Manager:    mgr,
		Dispatch:   lp.Call,
		Holder:     holder,
		ConfigPath: configPath(),
		Bus:        true,
		Emitter:    emitter,
	}, logger)

	loopErr := make(chan error, 1)
	go func() { loopErr <- lp.Run(ctx) }()

	if err := d.Start(ctx); err != nil {
		stop()
		<-loopErr
		return fmt.Errorf("failed to start host: %w", err)
	}
	logger.Info("toastui serving", "stack_id", mgr.StackID(), "version", version)

	err := <-loopErr
	d.Stop()
	mgr.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("toastui stopped")
	return nil
}
