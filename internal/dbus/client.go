package dbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
)

// ErrNoHost is returned when no toast host owns BusName.
var ErrNoHost = errors.New("no toastui host is running")

// Client calls a running toast host.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection and checks that a host
// is running.
func Connect(ctx context.Context) (*Client, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var hasOwner bool
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&hasOwner); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to look up %s: %w", BusName, err)
	}
	if !hasOwner {
		_ = conn.Close()
		return nil, ErrNoHost
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, Path),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Show posts a toast and returns its id.
func (c *Client) Show(ctx context.Context, message string, variant model.Variant) (model.ID, error) {
	var id uint64
	if err := c.obj.CallWithContext(ctx, Interface+".Show", 0, message, string(variant)).Store(&id); err != nil {
		return 0, fmt.Errorf("show: %w", err)
	}
	return model.ID(id), nil
}

// Dismiss dismisses a toast.
func (c *Client) Dismiss(ctx context.Context, id model.ID) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Dismiss", 0, uint64(id)).Err; err != nil {
		return fmt.Errorf("dismiss: %w", err)
	}
	return nil
}

// Clear removes every toast.
func (c *Client) Clear(ctx context.Context) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Clear", 0).Err; err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// List returns the toasts currently in the stack.
func (c *Client) List(ctx context.Context) ([]model.Notification, error) {
	var toasts []Toast
	if err := c.obj.CallWithContext(ctx, Interface+".List", 0).Store(&toasts); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]model.Notification, 0, len(toasts))
	for _, t := range toasts {
		out = append(out, t.Model())
	}
	return out, nil
}

// StackID returns the stack instance id of the host.
func (c *Client) StackID(ctx context.Context) (string, error) {
	var id string
	if err := c.obj.CallWithContext(ctx, Interface+".GetStackID", 0).Store(&id); err != nil {
		return "", fmt.Errorf("stack id: %w", err)
	}
	return id, nil
}
