package dbus

import (
	"context"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/toast/toasttest"
)

type closedSignal struct {
	id     uint32
	reason CloseReason
}

// recordClosed captures NotificationClosed signals instead of sending them.
func recordClosed(f *Freedesktop) *[]closedSignal {
	var sent []closedSignal
	f.closed = func(id uint32, reason CloseReason) {
		sent = append(sent, closedSignal{id, reason})
	}
	return &sent
}

// managerStack drives a Manager directly, standing in for daemon.Stack.
type managerStack struct {
	mgr *toast.Manager
}

func (s managerStack) Show(_ context.Context, message string, variant model.Variant) (model.ID, error) {
	return s.mgr.Show(message, variant), nil
}

func (s managerStack) Dismiss(_ context.Context, id model.ID) error {
	s.mgr.Dismiss(id)
	return nil
}

func (s managerStack) Clear(context.Context) error {
	s.mgr.Clear()
	return nil
}

func (s managerStack) List(context.Context) ([]model.Notification, error) {
	return s.mgr.Snapshot(), nil
}

func (s managerStack) StackID() string { return s.mgr.StackID() }

func notifyHints(urgency byte) map[string]dbus.Variant {
	return map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)}
}

func TestFreedesktop_Notify(t *testing.T) {
	stack := &fakeStack{}
	f := NewFreedesktop(stack, nil)

	id, derr := f.Notify("app", 0, "", "Disk full", "only 1% left", nil, notifyHints(UrgencyCritical), -1)
	require.Nil(t, derr)
	assert.Equal(t, uint32(1), id)

	require.Len(t, stack.shown, 1)
	assert.Equal(t, "Disk full: only 1% left", stack.shown[0].Message)
	assert.Equal(t, model.VariantDanger, stack.shown[0].Variant)
	assert.True(t, f.isActive(1))
}

func TestFreedesktop_NotifyReplaces(t *testing.T) {
	stack := &fakeStack{}
	f := NewFreedesktop(stack, nil)

	first, _ := f.Notify("app", 0, "", "Downloading", "", nil, nil, -1)
	second, derr := f.Notify("app", first, "", "Downloaded", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.Equal(t, []model.ID{model.ID(first)}, stack.dismissed)
	assert.NotEqual(t, first, second)

	// Unknown replaces_id just shows a new toast
	_, derr = f.Notify("app", 999, "", "Other", "", nil, nil, -1)
	require.Nil(t, derr)
	assert.Len(t, stack.dismissed, 1)
}

func TestFreedesktop_CloseNotification(t *testing.T) {
	stack := &fakeStack{}
	f := NewFreedesktop(stack, nil)

	id, _ := f.Notify("app", 0, "", "Hello", "", nil, nil, -1)

	assert.Nil(t, f.CloseNotification(id))
	assert.Equal(t, []model.ID{model.ID(id)}, stack.dismissed)

	// Unknown ids are ignored
	assert.Nil(t, f.CloseNotification(42))
	assert.Len(t, stack.dismissed, 1)
}

func TestFreedesktop_EmitForgetsDismissed(t *testing.T) {
	stack := &fakeStack{}
	f := NewFreedesktop(stack, nil)

	id, _ := f.Notify("app", 0, "", "Hello", "", nil, nil, -1)

	f.Emit(toast.Event{Kind: toast.EventShown, ID: model.ID(id)})
	assert.True(t, f.isActive(id))

	f.Emit(toast.Event{Kind: toast.EventDismissed, ID: model.ID(id), Reason: toast.ReasonExpired})
	assert.False(t, f.isActive(id))
}

func TestFreedesktop_EmitReportsReason(t *testing.T) {
	f := NewFreedesktop(&fakeStack{}, nil)
	sent := recordClosed(f)

	expired, _ := f.Notify("app", 0, "", "a", "", nil, nil, -1)
	closed, _ := f.Notify("app", 0, "", "b", "", nil, nil, -1)
	require.Nil(t, f.CloseNotification(closed))

	f.Emit(toast.Event{Kind: toast.EventDismissed, ID: model.ID(expired), Reason: toast.ReasonExpired})
	f.Emit(toast.Event{Kind: toast.EventDismissed, ID: model.ID(closed), Reason: toast.ReasonDismissed})
	// Toasts that did not come in through Notify are not reported
	f.Emit(toast.Event{Kind: toast.EventDismissed, ID: 99, Reason: toast.ReasonExpired})

	assert.Equal(t, []closedSignal{
		{expired, CloseReasonExpired},
		{closed, CloseReasonClosed},
	}, *sent)
}

func TestFreedesktop_ClearClosesAll(t *testing.T) {
	sched := toasttest.NewScheduler()
	mgr := toast.NewManager(toasttest.NewRenderer(), sched, nil, nil)
	f := NewFreedesktop(managerStack{mgr}, nil)
	mgr.SetEmitter(f)
	mgr.OnClear(f.ForgetAll)
	sent := recordClosed(f)

	var ids []uint32
	for _, summary := range []string{"one", "two", "three"} {
		id, derr := f.Notify("app", 0, "", summary, "", nil, nil, -1)
		require.Nil(t, derr)
		ids = append(ids, id)
	}

	mgr.Clear()

	assert.Equal(t, []closedSignal{
		{ids[0], CloseReasonClosed},
		{ids[1], CloseReasonClosed},
		{ids[2], CloseReasonClosed},
	}, *sent)
	for _, id := range ids {
		assert.False(t, f.isActive(id))
	}
	assert.Empty(t, f.active)

	// Cancelled timers never report the cleared notifications again
	sched.Advance(time.Hour)
	assert.Len(t, *sent, 3)

	mgr.Clear()
	assert.Len(t, *sent, 3)
}

func TestFreedesktop_ServerInfo(t *testing.T) {
	f := NewFreedesktop(&fakeStack{}, nil)

	name, vendor, _, specVersion, derr := f.GetServerInformation()
	require.Nil(t, derr)
	assert.Equal(t, "toastui", name)
	assert.Equal(t, "toastui", vendor)
	assert.Equal(t, "1.2", specVersion)

	caps, derr := f.GetCapabilities()
	require.Nil(t, derr)
	assert.Contains(t, caps, "body")
}
