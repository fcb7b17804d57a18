package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/audio"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Options configures a Daemon.
type Options struct {
	// Manager is the stack the daemon serves. It must be driven by the
	// same loop that Dispatch posts to.
	Manager  *toast.Manager
	Dispatch Dispatcher
	Holder   *config.Holder

	// ConfigPath enables hot reload when non-empty.
	ConfigPath string

	// Bus exports the stack on the session bus.
	Bus bool

	// Sink plays audio cues. Nil uses an audio.Player.
	Sink audio.Sink

	// Emitter receives stack events next to the daemon's own listeners.
	Emitter toast.Emitter

	// OnReload is called on the watcher goroutine after a new config was
	// stored in Holder.
	OnReload func(cfg *config.Config)
}

// Daemon connects a toast stack to D-Bus, audio and config reload.
type Daemon struct {
	logger *slog.Logger
	opts   Options

	stack       *Stack
	server      *dbus.Server
	freedesktop *dbus.Freedesktop
	cues        *audio.Cues
	player      *audio.Player
	watcher     *config.Watcher
	notifier    *InternalNotifier

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a daemon and installs its emitters on the manager.
// Call it on the event loop before the loop starts handling requests.
func New(opts Options, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Holder == nil {
		opts.Holder = config.NewHolder(nil)
	}

	d := &Daemon{
		logger: logger,
		opts:   opts,
		stack:  NewStack(opts.Manager, opts.Dispatch),
	}

	sink := opts.Sink
	if sink == nil {
		d.player = audio.NewPlayer(logger.With("component", "audio"))
		sink = d.player
	}
	d.cues = audio.NewCues(sink, func() config.AudioConfig {
		return opts.Holder.Load().Audio
	}, logger.With("component", "audio"))

	d.notifier = NewInternalNotifier(d.stack.Show, logger)

	emitters := toast.Emitters{d.cues, opts.Emitter}
	if opts.Bus {
		d.server = dbus.NewServer(d.stack, logger.With("component", "dbus"))
		emitters = append(emitters, d.server)
		if opts.Holder.Load().DBus.Freedesktop {
			d.freedesktop = dbus.NewFreedesktop(d.stack, logger.With("component", "freedesktop"))
			emitters = append(emitters, d.freedesktop)
			opts.Manager.OnClear(d.freedesktop.ForgetAll)
		}
	}
	opts.Manager.SetEmitter(emitters)

	return d
}

// Stack returns the loop-dispatching view of the manager.
func (d *Daemon) Stack() *Stack {
	return d.stack
}

// Notifier returns the internal toast notifier.
func (d *Daemon) Notifier() *InternalNotifier {
	return d.notifier
}

// Start claims the bus names and starts the audio worker and config watcher.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("daemon already running")
	}
	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.server != nil {
		if err := d.server.Start(); err != nil {
			d.cancel()
			return fmt.Errorf("failed to start D-Bus server: %w", err)
		}
	}
	if d.freedesktop != nil {
		// Another notification daemon may own the name; toastui keeps running without the bridge.
		if err := d.freedesktop.Start(); err != nil {
			d.logger.Warn("freedesktop bridge unavailable", "error", err)
			d.freedesktop = nil
		}
	}

	d.cues.Start(d.ctx)

	if d.opts.ConfigPath != "" {
		w, err := config.NewWatcher(d.opts.ConfigPath, d.logger.With("component", "config"))
		if err != nil {
			d.logger.Warn("config hot reload disabled", "error", err)
		} else {
			w.SetReloadCallback(d.onConfigReload)
			w.SetErrorCallback(d.onConfigError)
			if err := w.Start(d.ctx); err != nil {
				d.logger.Warn("config hot reload disabled", "error", err)
			} else {
				d.watcher = w
			}
		}
	}

	d.running = true
	d.logger.Info("daemon started", "stack_id", d.stack.StackID(), "bus", d.server != nil)
	return nil
}

// Stop shuts everything down in reverse order. The manager itself is
// torn down by the host on its loop. Stop may be called on the loop: the
// context is cancelled first so that pending dispatches give up.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.running = false
	d.cancel()

	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warn("failed to stop config watcher", "error", err)
		}
		d.watcher = nil
	}
	d.cues.Stop()
	if d.player != nil {
		d.player.Close()
	}
	if d.freedesktop != nil {
		_ = d.freedesktop.Stop()
	}
	if d.server != nil {
		_ = d.server.Stop()
	}
	d.logger.Info("daemon stopped")
}

func (d *Daemon) onConfigReload(cfg *config.Config) {
	d.opts.Holder.Store(cfg)
	if d.opts.OnReload != nil {
		d.opts.OnReload(cfg)
	}
	d.notifier.NotifyConfigReloaded(d.ctx)
}

func (d *Daemon) onConfigError(err error) {
	d.logger.Warn("keeping previous configuration", "error", err)
	d.notifier.NotifyConfigError(d.ctx, err)
}
