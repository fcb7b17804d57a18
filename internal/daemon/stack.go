package daemon

import (
	"context"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Dispatcher runs fn on the host event loop and waits for it to return.
// loop.Loop.Call is the reference implementation.
type Dispatcher func(ctx context.Context, fn func()) error

// Stack gives goroutines outside the event loop access to a Manager. Every
// call is dispatched onto the loop, so the Manager itself stays single-threaded.
type Stack struct {
	mgr      *toast.Manager
	dispatch Dispatcher
}

// NewStack creates a Stack for mgr.
func NewStack(mgr *toast.Manager, dispatch Dispatcher) *Stack {
	return &Stack{mgr: mgr, dispatch: dispatch}
}

// Show implements dbus.Stack.
func (s *Stack) Show(ctx context.Context, message string, variant model.Variant) (model.ID, error) {
	var id model.ID
	err := s.dispatch(ctx, func() {
		id = s.mgr.Show(message, variant)
	})
	return id, err
}

// Dismiss implements dbus.Stack.
func (s *Stack) Dismiss(ctx context.Context, id model.ID) error {
	return s.dispatch(ctx, func() {
		s.mgr.Dismiss(id)
	})
}

// Clear implements dbus.Stack.
func (s *Stack) Clear(ctx context.Context) error {
	return s.dispatch(ctx, s.mgr.Clear)
}

// List implements dbus.Stack.
func (s *Stack) List(ctx context.Context) ([]model.Notification, error) {
	var ns []model.Notification
	err := s.dispatch(ctx, func() {
		ns = s.mgr.Snapshot()
	})
	return ns, err
}

// StackID implements dbus.Stack. The id never changes, so no dispatch is needed.
func (s *Stack) StackID() string {
	return s.mgr.StackID()
}
