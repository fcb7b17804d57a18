package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Monitor follows the Shown and Dismissed signals of a toast host.
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewMonitor creates a monitor on a private session bus connection.
func NewMonitor(logger *slog.Logger) (*Monitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Monitor{conn: conn, logger: logger}, nil
}

// Run delivers events to handler until ctx is done.
func (m *Monitor) Run(ctx context.Context, handler func(toast.Event)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
	}
	if err := m.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() { _ = m.conn.RemoveMatchSignal(opts...) }()

	ch := make(chan *dbus.Signal, 32)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)

	m.logger.Debug("monitoring toast signals", "interface", Interface)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return fmt.Errorf("session bus connection closed")
			}
			ev, err := ParseSignal(sig)
			if err != nil {
				m.logger.Debug("ignoring signal", "name", sig.Name, "error", err)
				continue
			}
			handler(ev)
		}
	}
}

// Close closes the connection.
func (m *Monitor) Close() error {
	return m.conn.Close()
}
