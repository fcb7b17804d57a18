package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/daemon"
	"github.com/jmylchreest/toastui/internal/loop"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Holder     *config.Holder
	ConfigPath string // Path to watch for changes (empty = no watching)
	Bus        bool   // Export the stack on the session bus
	Logger     *slog.Logger
}

// host bridges goroutines outside bubbletea onto its event loop.
type host struct {
	program *tea.Program
	done    chan struct{}
}

// post implements loop.PostFunc.
func (h *host) post(fn func()) {
	h.program.Send(runMsg(fn))
}

// call implements daemon.Dispatcher.
func (h *host) call(ctx context.Context, fn func()) error {
	select {
	case <-h.done:
		return loop.ErrStopped
	default:
	}

	finished := make(chan struct{})
	go h.program.Send(callMsg{fn: fn, done: finished})

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return loop.ErrStopped
	}
}

// Run starts the terminal host and blocks until the user quits.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	holder := opts.Holder
	if holder == nil {
		holder = config.NewHolder(nil)
	}

	h := &host{done: make(chan struct{})}
	m := New(Options{
		Holder:    holder,
		Scheduler: loop.NewScheduler(h.post),
		Logger:    logger,
	})
	h.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	d := daemon.New(daemon.Options{
		Manager:    m.Manager(),
		Dispatch:   h.call,
		Holder:     holder,
		ConfigPath: opts.ConfigPath,
		Bus:        opts.Bus,
		Emitter:    m.Events(),
	}, logger)

	if err := d.Start(ctx); err != nil {
		return err
	}

	_, err := h.program.Run()
	close(h.done)

	d.Stop()
	m.Manager().Close()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal host: %w", err)
	}
	return nil
}
