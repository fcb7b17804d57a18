package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Emit implements toast.Emitter by broadcasting Shown and Dismissed.
func (s *Server) Emit(ev toast.Event) {
	s.mu.Lock()
	conn, running := s.conn, s.running
	s.mu.Unlock()

	if !running {
		return
	}

	name, body := signalBody(ev)
	if name == "" {
		return
	}
	if err := conn.Emit(Path, Interface+"."+name, body...); err != nil {
		s.logger.Warn("failed to emit signal", "signal", name, "toast_id", ev.ID, "error", err)
		return
	}
	s.logger.Debug("emitted signal", "signal", name, "toast_id", ev.ID)
}

// signalBody returns the member name and arguments for an event.
func signalBody(ev toast.Event) (string, []any) {
	switch ev.Kind {
	case toast.EventShown:
		return SignalShown, []any{uint64(ev.ID), ev.Message, string(ev.Variant), ev.Stack}
	case toast.EventDismissed:
		return SignalDismissed, []any{uint64(ev.ID), string(ev.Reason), ev.Stack}
	default:
		return "", nil
	}
}

// ParseSignal converts a Shown or Dismissed signal back into an event.
func ParseSignal(sig *dbus.Signal) (toast.Event, error) {
	switch sig.Name {
	case Interface + "." + SignalShown:
		var (
			id                      uint64
			message, variant, stack string
		)
		if err := dbus.Store(sig.Body, &id, &message, &variant, &stack); err != nil {
			return toast.Event{}, fmt.Errorf("malformed %s signal: %w", SignalShown, err)
		}
		return toast.Event{
			Kind:    toast.EventShown,
			Stack:   stack,
			ID:      model.ID(id),
			Message: message,
			Variant: model.ParseVariant(variant),
		}, nil

	case Interface + "." + SignalDismissed:
		var (
			id            uint64
			reason, stack string
		)
		if err := dbus.Store(sig.Body, &id, &reason, &stack); err != nil {
			return toast.Event{}, fmt.Errorf("malformed %s signal: %w", SignalDismissed, err)
		}
		return toast.Event{
			Kind:   toast.EventDismissed,
			Stack:  stack,
			ID:     model.ID(id),
			Reason: toast.DismissReason(reason),
		}, nil

	default:
		return toast.Event{}, fmt.Errorf("unexpected signal %q", sig.Name)
	}
}
