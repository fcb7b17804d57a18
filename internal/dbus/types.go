package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	// Interface is the toast stack interface name.
	Interface = "io.github.jmylchreest.Toastui"
	// Path is the toast stack object path.
	Path = "/io/github/jmylchreest/Toastui"
	// BusName is the bus name claimed by a toast host.
	BusName = "io.github.jmylchreest.Toastui"

	// SignalShown is broadcast after a toast was rendered.
	SignalShown = "Shown"
	// SignalDismissed is broadcast after a toast was removed.
	SignalDismissed = "Dismissed"
)

// Toast is the wire form of a notification, signature (tssx).
type Toast struct {
	ID        uint64
	Message   string
	Variant   string
	CreatedAt int64 // Unix milliseconds
}

// ToastFromModel converts a notification to its wire form.
func ToastFromModel(n model.Notification) Toast {
	return Toast{
		ID:        uint64(n.ID),
		Message:   n.Message,
		Variant:   string(n.Variant),
		CreatedAt: n.CreatedAt.UnixMilli(),
	}
}

// Model converts the wire form back to a notification.
func (t Toast) Model() model.Notification {
	return model.Notification{
		ID:        model.ID(t.ID),
		Message:   t.Message,
		Variant:   model.ParseVariant(t.Variant),
		State:     model.StateActive,
		CreatedAt: time.UnixMilli(t.CreatedAt),
	}
}

// CloseReason is the reason code of the freedesktop NotificationClosed signal.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved/undefined per the freedesktop protocol.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// closeReasonFor maps a stack dismiss reason to the freedesktop code.
func closeReasonFor(r toast.DismissReason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonDismissed:
		return CloseReasonDismissed
	default:
		return CloseReasonUndefined
	}
}

// Urgency levels of the freedesktop "urgency" hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// Notification is an incoming org.freedesktop.Notifications.Notify call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint, defaulting to normal.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
func (n *Notification) Category() string {
	if v, ok := n.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Variant chooses the toast variant for the notification. Critical urgency
// is always danger; otherwise the category decides and low urgency falls
// back to info.
func (n *Notification) Variant() model.Variant {
	if n.Urgency() >= UrgencyCritical {
		return model.VariantDanger
	}

	cat := n.Category()
	switch {
	case strings.HasSuffix(cat, ".error"), strings.HasSuffix(cat, ".failed"):
		return model.VariantDanger
	case strings.HasSuffix(cat, ".warning"):
		return model.VariantWarning
	case strings.HasSuffix(cat, ".complete"), strings.HasSuffix(cat, ".success"):
		return model.VariantSuccess
	}

	if n.Urgency() == UrgencyLow {
		return model.VariantInfo
	}
	return model.VariantDefault
}

// Message joins summary and body into the toast text.
func (n *Notification) Message() string {
	summary := strings.TrimSpace(n.Summary)
	body := strings.TrimSpace(n.Body)
	switch {
	case body == "":
		return summary
	case summary == "":
		return body
	default:
		return summary + ": " + body
	}
}

// ServerCapabilities lists the freedesktop capabilities advertised by the bridge.
var ServerCapabilities = []string{
	"body",
	"sound",
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastui",
		Vendor:      "toastui",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}
