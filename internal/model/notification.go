// Package model defines the core data structures for toastui.
package model

import (
	"strconv"
	"time"
)

// ID identifies a notification within one stack. IDs start at 1 and are never reused.
type ID uint64

// String returns the decimal form of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal notification ID.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

// Variant is the semantic category of a notification. It selects the accent treatment.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantDanger  Variant = "danger"
	VariantInfo    Variant = "info"
)

// Variants returns all known variants in display order.
func Variants() []Variant {
	return []Variant{VariantDefault, VariantSuccess, VariantWarning, VariantDanger, VariantInfo}
}

// ParseVariant maps a string to a Variant.
// Unknown or empty values fall back to VariantDefault.
func ParseVariant(s string) Variant {
	v := Variant(s)
	if v.Valid() {
		return v
	}
	return VariantDefault
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantDefault, VariantSuccess, VariantWarning, VariantDanger, VariantInfo:
		return true
	default:
		return false
	}
}

// Severity ranks variants for sorting and status summaries.
// Danger ranks highest, default lowest.
func (v Variant) Severity() int {
	switch v {
	case VariantDanger:
		return 4
	case VariantWarning:
		return 3
	case VariantSuccess:
		return 2
	case VariantInfo:
		return 1
	default:
		return 0
	}
}

// Icon returns the glyph drawn in front of a toast message.
func (v Variant) Icon() string {
	switch v {
	case VariantSuccess:
		return "✓"
	case VariantWarning:
		return "!"
	case VariantDanger:
		return "✗"
	case VariantInfo:
		return "i"
	default:
		return "•"
	}
}

// State is the lifecycle state of a notification.
type State int

const (
	// StateActive is the state of a freshly shown notification.
	StateActive State = iota
	// StateExiting means the exit transition is playing. The entry is removed once it finishes.
	StateExiting
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Notification is one entry in a toast stack.
type Notification struct {
	ID        ID        `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Variant   Variant   `json:"variant" yaml:"variant"`
	State     State     `json:"-" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Active reports whether the notification is still active (not exiting).
func (n Notification) Active() bool {
	return n.State == StateActive
}

// MessageTruncated returns the message cut to maxLen runes with an ellipsis.
func (n Notification) MessageTruncated(maxLen int) string {
	runes := []rune(n.Message)
	if maxLen <= 0 || len(runes) <= maxLen {
		return n.Message
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
