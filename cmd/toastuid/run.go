package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/display"
	"github.com/jmylchreest/toastui/internal/theme"
	"github.com/jmylchreest/toastui/internal/toast"
)

// run drives the GTK application. Everything touching the stack runs on
// the GLib main loop; other goroutines reach it through display.Dispatch.
func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting toastuid", "version", version)

	holder := config.NewHolder(cfg)
	app := adw.NewApplication(appID, 0)

	var (
		themeLoader *theme.Loader
		renderer    *display.Renderer
		mgr         *toast.Manager
		d           *daemon.Daemon
		running     atomic.Bool
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
			glib.IdleAdd(func() {
				app.Quit()
			})
		case <-ctx.Done():
		}
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		themeLoader = theme.NewLoader(logger.With("component", "theme"))
		if err := themeLoader.Load(cfg.Theme.Name, cfg.Theme.Accents); err != nil {
			logger.Warn("failed to load theme", "theme", cfg.Theme.Name, "error", err)
		}
		themeLoader.Apply(nil)
		themeLoader.StartHotReload(ctx)

		sched := display.Scheduler{}
		renderer = display.NewRenderer(&app.Application, holder, sched, logger.With("component", "display"))
		if err := renderer.Start(); err != nil {
			logger.Error("failed to start display", "error", err)
			app.Quit()
			return
		}

		mgr = toast.NewManager(renderer, sched, holder.Settings, logger)
		renderer.SetCloseCallback(mgr.Dismiss)

		d = daemon.New(daemon.Options{
			Manager:    mgr,
			Dispatch:   display.Dispatch,
			Holder:     holder,
			ConfigPath: configPath(),
			Bus:        !opts.noBus,
			OnReload: func(newCfg *config.Config) {
				reloadTheme(ctx, themeLoader, d, newCfg, logger)
			},
		}, logger)

		if err := d.Start(ctx); err != nil {
			logger.Error("failed to start daemon", "error", err)
			app.Quit()
			return
		}

		app.Hold()
		logger.Info("toastuid ready", "stack_id", mgr.StackID(), "theme", themeLoader.CurrentTheme())
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		cancel()
		if d != nil {
			d.Stop()
		}
		if mgr != nil {
			mgr.Close()
		}
		if renderer != nil {
			renderer.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		running.Store(false)
	})

	// GApplication must not see cobra's flags.
	if status := app.Run(os.Args[:1]); status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	return nil
}

// reloadTheme applies theme changes from a reloaded config. It runs on the
// config watcher goroutine.
func reloadTheme(ctx context.Context, loader *theme.Loader, d *daemon.Daemon, cfg *config.Config, logger *slog.Logger) {
	var loadErr error
	err := display.Dispatch(ctx, func() {
		if cfg.Theme.Name == loader.CurrentTheme() {
			loader.SetAccents(cfg.Theme.Accents)
			return
		}
		loadErr = loader.Load(cfg.Theme.Name, cfg.Theme.Accents)
		loader.StartHotReload(ctx)
	})
	if err != nil {
		return
	}
	if loadErr != nil {
		logger.Warn("failed to load new theme", "theme", cfg.Theme.Name, "error", loadErr)
		d.Notifier().NotifyThemeError(ctx, cfg.Theme.Name, loadErr)
	}
}
