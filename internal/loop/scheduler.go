package loop

import (
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending deferred callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the timer was already
	// stopped or its callback already ran.
	Stop() bool
}

// Scheduler schedules callbacks on an event loop.
type Scheduler interface {
	// AfterFunc runs fn on the loop once d has elapsed, unless the returned
	// Timer is stopped first.
	AfterFunc(d time.Duration, fn func()) Timer
}

// PostFunc hands fn to an event loop for execution on the loop goroutine.
type PostFunc func(fn func())

// PostScheduler implements Scheduler on top of any PostFunc.
// time.AfterFunc fires on its own goroutine and posts a guarded callback
// to the loop. The guard is checked on the loop, so a Stop issued on the
// loop wins even when the wall-clock timer already fired.
type PostScheduler struct {
	post PostFunc
}

// NewScheduler creates a Scheduler that delivers callbacks through post.
func NewScheduler(post PostFunc) *PostScheduler {
	return &PostScheduler{post: post}
}

// AfterFunc implements Scheduler.
func (s *PostScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &postTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.post(func() {
			if t.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type postTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *postTimer) Stop() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}
