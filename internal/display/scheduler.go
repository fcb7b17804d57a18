package display

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/toastui/internal/loop"
)

// Scheduler implements loop.Scheduler on GLib timeout sources. Callbacks
// run on the main loop; AfterFunc and Stop must be called from it too.
type Scheduler struct{}

var _ loop.Scheduler = Scheduler{}

// AfterFunc implements loop.Scheduler.
func (Scheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	t := &sourceTimer{}
	t.handle = glib.TimeoutAdd(uint(max(d, 0).Milliseconds()), func() bool {
		t.fired = true
		fn()
		return false
	})
	return t
}

// sourceTimer needs no locking: it is only touched on the main loop.
type sourceTimer struct {
	handle  glib.SourceHandle
	fired   bool
	stopped bool
}

func (t *sourceTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	glib.SourceRemove(t.handle)
	return true
}

// Dispatch runs fn on the GLib main loop and waits for it to return.
// It satisfies daemon.Dispatcher. fn is skipped when ctx is done by the
// time the main loop gets to it; once fn has started, Dispatch waits for it
// and returns nil.
func Dispatch(ctx context.Context, fn func()) error {
	return dispatch(ctx, fn, func(cb func()) { glib.IdleAdd(cb) })
}

// dispatch runs fn through post and waits. Either the posted callback or the
// cancelled caller claims the call; fn runs only if the callback wins.
func dispatch(ctx context.Context, fn func(), post func(func())) error {
	var (
		claimed atomic.Bool
		ran     bool
	)
	done := make(chan struct{})
	post(func() {
		defer close(done)
		if ctx.Err() == nil && claimed.CompareAndSwap(false, true) {
			ran = true
			fn()
		}
	})

	select {
	case <-done:
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
		<-done
	}
	if !ran {
		return ctx.Err()
	}
	return nil
}
