package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when work is handed to a loop that is not running.
var ErrStopped = errors.New("event loop stopped")

// Loop is a goroutine-backed event loop. All posted functions run
// sequentially on the goroutine that called Run.
type Loop struct {
	logger *slog.Logger
	queue  chan func()
	sched  *PostScheduler

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// New creates a new event loop with the given queue capacity.
func New(capacity int, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = 64
	}
	l := &Loop{
		logger: logger,
		queue:  make(chan func(), capacity),
		done:   make(chan struct{}),
	}
	l.sched = NewScheduler(func(fn func()) { l.Post(fn) })
	return l
}

// Run processes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("event loop already running")
	}
	l.running = true
	l.done = make(chan struct{})
	l.mu.Unlock()

	l.logger.Debug("event loop started")
	defer func() {
		l.mu.Lock()
		l.running = false
		close(l.done)
		l.mu.Unlock()
		l.logger.Debug("event loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// invoke runs fn and keeps the loop alive if it panics.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", r)
		}
	}()
	fn()
}

// Post queues fn for execution on the loop. It blocks while the queue is
// full, and drops fn once Run has returned.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	select {
	case l.queue <- fn:
	case <-done:
		l.logger.Debug("dropped callback posted to stopped event loop")
	}
}

// Call runs fn on the loop and waits for it to finish.
// It must not be called from the loop goroutine itself. If ctx ends before
// the loop reaches fn, fn is skipped and ctx.Err() is returned; once fn has
// started, Call waits for it and returns nil.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	l.mu.Lock()
	running := l.running
	done := l.done
	l.mu.Unlock()
	if !running {
		return ErrStopped
	}

	// claimed is won either by the loop (fn runs) or by the caller giving up.
	var claimed atomic.Bool
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		if claimed.CompareAndSwap(false, true) {
			fn()
		}
	}

	select {
	case l.queue <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
	case <-done:
		if claimed.CompareAndSwap(false, true) {
			return ErrStopped
		}
	}
	<-finished
	return nil
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.sched.AfterFunc(d, fn)
}
