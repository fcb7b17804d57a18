package dbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastui/internal/model"
)

// Stack is the host side of the bus interface. Implementations marshal
// every call onto the host event loop and wait for the result.
type Stack interface {
	Show(ctx context.Context, message string, variant model.Variant) (model.ID, error)
	Dismiss(ctx context.Context, id model.ID) error
	Clear(ctx context.Context) error
	List(ctx context.Context) ([]model.Notification, error)
	StackID() string
}

// callTimeout bounds how long a method call waits for the host loop.
const callTimeout = 5 * time.Second

// Server exports a Stack on the session bus and broadcasts its events.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger
	stack  Stack

	mu      sync.Mutex
	running bool
}

// NewServer creates a server for stack.
func NewServer(stack Stack, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		stack:  stack,
		logger: logger,
	}
}

// Start connects to the session bus, exports the object and claims BusName.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := export(conn, s, Path, Interface, introspectInterface()); err != nil {
		return err
	}
	if err := requestName(conn, BusName); err != nil {
		return err
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus toast server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	s.logger.Info("D-Bus toast server stopped")
	return nil
}

// Show posts a toast.
// D-Bus method: Show(ss) -> t
func (s *Server) Show(message, variant string) (uint64, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	id, err := s.stack.Show(ctx, message, model.ParseVariant(variant))
	if err != nil {
		return 0, s.failed("Show", err)
	}
	s.logger.Debug("Show called", "toast_id", id, "variant", variant)
	return uint64(id), nil
}

// Dismiss starts the exit transition of a toast. Unknown ids are ignored.
// D-Bus method: Dismiss(t)
func (s *Server) Dismiss(id uint64) *dbus.Error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if err := s.stack.Dismiss(ctx, model.ID(id)); err != nil {
		return s.failed("Dismiss", err)
	}
	return nil
}

// Clear removes every toast without animation or signals.
// D-Bus method: Clear()
func (s *Server) Clear() *dbus.Error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if err := s.stack.Clear(ctx); err != nil {
		return s.failed("Clear", err)
	}
	return nil
}

// List returns the toasts currently in the stack, in insertion order.
// D-Bus method: List() -> a(tssx)
func (s *Server) List() ([]Toast, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	ns, err := s.stack.List(ctx)
	if err != nil {
		return nil, s.failed("List", err)
	}
	out := make([]Toast, 0, len(ns))
	for _, n := range ns {
		out = append(out, ToastFromModel(n))
	}
	return out, nil
}

// GetStackID returns the ULID of the stack instance.
// D-Bus method: GetStackID() -> s
func (s *Server) GetStackID() (string, *dbus.Error) {
	return s.stack.StackID(), nil
}

func (s *Server) failed(method string, err error) *dbus.Error {
	s.logger.Warn("D-Bus method failed", "method", method, "error", err)
	return dbus.MakeFailedError(err)
}

// export publishes v and its introspection data on conn.
func export(conn *dbus.Conn, v any, path dbus.ObjectPath, iface string, ifaceData introspect.Interface) error {
	if err := conn.Export(v, path, iface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			ifaceData,
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// ErrNameTaken is returned when another process owns the bus name.
var ErrNameTaken = errors.New("bus name already taken")

func requestName(conn *dbus.Conn, name string) error {
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	return nil
}

func introspectInterface() introspect.Interface {
	return introspect.Interface{
		Name: Interface,
		Methods: []introspect.Method{
			{
				Name: "Show",
				Args: []introspect.Arg{
					{Name: "message", Type: "s", Direction: "in"},
					{Name: "variant", Type: "s", Direction: "in"},
					{Name: "id", Type: "t", Direction: "out"},
				},
			},
			{
				Name: "Dismiss",
				Args: []introspect.Arg{
					{Name: "id", Type: "t", Direction: "in"},
				},
			},
			{
				Name: "Clear",
			},
			{
				Name: "List",
				Args: []introspect.Arg{
					{Name: "toasts", Type: "a(tssx)", Direction: "out"},
				},
			},
			{
				Name: "GetStackID",
				Args: []introspect.Arg{
					{Name: "stack_id", Type: "s", Direction: "out"},
				},
			},
		},
		Signals: []introspect.Signal{
			{
				Name: SignalShown,
				Args: []introspect.Arg{
					{Name: "id", Type: "t"},
					{Name: "message", Type: "s"},
					{Name: "variant", Type: "s"},
					{Name: "stack_id", Type: "s"},
				},
			},
			{
				Name: SignalDismissed,
				Args: []introspect.Arg{
					{Name: "id", Type: "t"},
					{Name: "reason", Type: "s"},
					{Name: "stack_id", Type: "s"},
				},
			},
		},
	}
}
