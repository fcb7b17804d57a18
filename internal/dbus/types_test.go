package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestCloseReasonFor(t *testing.T) {
	assert.Equal(t, CloseReasonExpired, closeReasonFor(toast.ReasonExpired))
	assert.Equal(t, CloseReasonDismissed, closeReasonFor(toast.ReasonDismissed))
	assert.Equal(t, CloseReasonUndefined, closeReasonFor(""))
}

func TestNotificationVariant(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected model.Variant
	}{
		{
			name:     "no hints",
			expected: model.VariantDefault,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: model.VariantInfo,
		},
		{
			name:     "normal urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
			expected: model.VariantDefault,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: model.VariantDanger,
		},
		{
			name:     "wrong urgency type",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: model.VariantDefault,
		},
		{
			name:     "transfer complete",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")},
			expected: model.VariantSuccess,
		},
		{
			name:     "transfer error",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.error")},
			expected: model.VariantDanger,
		},
		{
			name: "low urgency warning category",
			hints: map[string]dbus.Variant{
				"urgency":  dbus.MakeVariant(byte(0)),
				"category": dbus.MakeVariant("device.warning"),
			},
			expected: model.VariantWarning,
		},
		{
			name: "critical wins over category",
			hints: map[string]dbus.Variant{
				"urgency":  dbus.MakeVariant(byte(2)),
				"category": dbus.MakeVariant("transfer.complete"),
			},
			expected: model.VariantDanger,
		},
		{
			name:     "unrelated category",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant("email.arrived")},
			expected: model.VariantDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Notification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Variant())
		})
	}
}

func TestNotificationMessage(t *testing.T) {
	tests := []struct {
		summary, body, expected string
	}{
		{"Saved", "", "Saved"},
		{"", "body only", "body only"},
		{"Build", "finished in 3s", "Build: finished in 3s"},
		{"  padded ", " text  ", "padded: text"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			n := &Notification{Summary: tt.summary, Body: tt.body}
			assert.Equal(t, tt.expected, n.Message())
		})
	}
}

func TestToastConversion(t *testing.T) {
	created := time.UnixMilli(1700000000123)
	n := model.Notification{
		ID:        7,
		Message:   "Saved",
		Variant:   model.VariantSuccess,
		State:     model.StateExiting,
		CreatedAt: created,
	}

	wire := ToastFromModel(n)
	assert.Equal(t, Toast{ID: 7, Message: "Saved", Variant: "success", CreatedAt: 1700000000123}, wire)

	back := wire.Model()
	assert.Equal(t, model.ID(7), back.ID)
	assert.Equal(t, model.VariantSuccess, back.Variant)
	assert.True(t, created.Equal(back.CreatedAt))
}
