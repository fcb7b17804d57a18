package dbus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	// FreedesktopInterface is the notification interface name.
	FreedesktopInterface = "org.freedesktop.Notifications"
	// FreedesktopPath is the notification object path.
	FreedesktopPath = "/org/freedesktop/Notifications"
	// FreedesktopBusName is the bus name to claim.
	FreedesktopBusName = "org.freedesktop.Notifications"
)

// Freedesktop bridges org.freedesktop.Notifications onto a Stack.
// Notification ids are the toast ids truncated to 32 bits.
type Freedesktop struct {
	conn   *dbus.Conn
	logger *slog.Logger
	stack  Stack
	info   ServerInfo

	mu sync.Mutex
	// active maps ids handed out by Notify to whether CloseNotification
	// was requested for them.
	active  map[uint32]bool
	running bool

	// closed sends NotificationClosed; replaced in tests.
	closed func(id uint32, reason CloseReason)
}

// NewFreedesktop creates a bridge for stack.
func NewFreedesktop(stack Stack, logger *slog.Logger) *Freedesktop {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Freedesktop{
		logger: logger,
		stack:  stack,
		info:   DefaultServerInfo(),
		active: make(map[uint32]bool),
	}
	f.closed = f.emitClosed
	return f
}

// SetServerInfo sets the information returned by GetServerInformation.
func (f *Freedesktop) SetServerInfo(info ServerInfo) {
	f.info = info
}

// Start claims org.freedesktop.Notifications on the session bus.
func (f *Freedesktop) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return fmt.Errorf("freedesktop bridge already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := export(conn, f, FreedesktopPath, FreedesktopInterface, freedesktopInterface()); err != nil {
		return err
	}
	if err := requestName(conn, FreedesktopBusName); err != nil {
		return err
	}

	f.conn = conn
	f.running = true
	f.logger.Info("freedesktop notification bridge started", "path", FreedesktopPath)
	return nil
}

// Stop releases the bus name.
func (f *Freedesktop) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return nil
	}
	f.running = false

	if _, err := f.conn.ReleaseName(FreedesktopBusName); err != nil {
		f.logger.Warn("failed to release bus name", "error", err)
	}
	f.logger.Info("freedesktop notification bridge stopped")
	return nil
}

// GetCapabilities returns the supported capabilities.
// D-Bus method: GetCapabilities() -> as
func (f *Freedesktop) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (f *Freedesktop) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return f.info.Name, f.info.Vendor, f.info.Version, f.info.SpecVersion, nil
}

// Notify shows a toast for an application notification. A non-zero
// replaces_id dismisses the toast it names first.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (f *Freedesktop) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	n := &Notification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	id, err := f.notify(n)
	if err != nil {
		f.logger.Warn("Notify failed", "app_name", appName, "error", err)
		return 0, dbus.MakeFailedError(err)
	}
	return id, nil
}

func (f *Freedesktop) notify(n *Notification) (uint32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	if n.ReplacesID != 0 && f.isActive(n.ReplacesID) {
		if err := f.stack.Dismiss(ctx, model.ID(n.ReplacesID)); err != nil {
			return 0, err
		}
	}

	toastID, err := f.stack.Show(ctx, n.Message(), n.Variant())
	if err != nil {
		return 0, err
	}

	id := uint32(toastID)
	f.mu.Lock()
	f.active[id] = false
	f.mu.Unlock()

	f.logger.Debug("Notify called",
		"app_name", n.AppName,
		"replaces_id", n.ReplacesID,
		"urgency", n.Urgency(),
		"toast_id", toastID,
	)
	return id, nil
}

// CloseNotification dismisses the toast of a notification.
// D-Bus method: CloseNotification(u)
func (f *Freedesktop) CloseNotification(id uint32) *dbus.Error {
	f.mu.Lock()
	_, ok := f.active[id]
	if ok {
		f.active[id] = true
	}
	f.mu.Unlock()

	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	if err := f.stack.Dismiss(ctx, model.ID(id)); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Emit implements toast.Emitter. It reports dismissed toasts that came in
// through Notify with NotificationClosed.
func (f *Freedesktop) Emit(ev toast.Event) {
	if ev.Kind != toast.EventDismissed {
		return
	}
	id := uint32(ev.ID)

	f.mu.Lock()
	closing, ok := f.active[id]
	delete(f.active, id)
	f.mu.Unlock()

	if !ok {
		return
	}

	reason := closeReasonFor(ev.Reason)
	if closing {
		reason = CloseReasonClosed
	}
	f.closed(id, reason)
}

// ForgetAll reports every tracked notification as closed and stops tracking
// them. The stack's Clear emits no dismissed events, so the host calls this
// after clearing.
func (f *Freedesktop) ForgetAll() {
	f.mu.Lock()
	ids := make([]uint32, 0, len(f.active))
	for id := range f.active {
		ids = append(ids, id)
	}
	clear(f.active)
	f.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		f.closed(id, CloseReasonClosed)
	}
}

func (f *Freedesktop) emitClosed(id uint32, reason CloseReason) {
	f.mu.Lock()
	conn, running := f.conn, f.running
	f.mu.Unlock()

	if !running {
		return
	}
	if err := conn.Emit(FreedesktopPath, FreedesktopInterface+".NotificationClosed", id, uint32(reason)); err != nil {
		f.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
		return
	}
	f.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
}

func (f *Freedesktop) isActive(id uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.active[id]
	return ok
}

func freedesktopInterface() introspect.Interface {
	return introspect.Interface{
		Name: FreedesktopInterface,
		Methods: []introspect.Method{
			{
				Name: "GetCapabilities",
				Args: []introspect.Arg{
					{Name: "capabilities", Type: "as", Direction: "out"},
				},
			},
			{
				Name: "GetServerInformation",
				Args: []introspect.Arg{
					{Name: "name", Type: "s", Direction: "out"},
					{Name: "vendor", Type: "s", Direction: "out"},
					{Name: "version", Type: "s", Direction: "out"},
					{Name: "spec_version", Type: "s", Direction: "out"},
				},
			},
			{
				Name: "Notify",
				Args: []introspect.Arg{
					{Name: "app_name", Type: "s", Direction: "in"},
					{Name: "replaces_id", Type: "u", Direction: "in"},
					{Name: "app_icon", Type: "s", Direction: "in"},
					{Name: "summary", Type: "s", Direction: "in"},
					{Name: "body", Type: "s", Direction: "in"},
					{Name: "actions", Type: "as", Direction: "in"},
					{Name: "hints", Type: "a{sv}", Direction: "in"},
					{Name: "expire_timeout", Type: "i", Direction: "in"},
					{Name: "id", Type: "u", Direction: "out"},
				},
			},
			{
				Name: "CloseNotification",
				Args: []introspect.Arg{
					{Name: "id", Type: "u", Direction: "in"},
				},
			},
		},
		Signals: []introspect.Signal{
			{
				Name: "NotificationClosed",
				Args: []introspect.Arg{
					{Name: "id", Type: "u"},
					{Name: "reason", Type: "u"},
				},
			},
		},
	}
}
