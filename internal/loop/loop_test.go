package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(16, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})

	// Wait until Run has marked the loop as running.
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.running
	}, time.Second, time.Millisecond)
	return l
}

func TestLoop_CallRunsOnLoop(t *testing.T) {
	l := startLoop(t)

	var order []int
	for i := range 5 {
		l.Post(func() { order = append(order, i) })
	}

	var snapshot []int
	err := l.Call(context.Background(), func() {
		snapshot = append(snapshot, order...)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, snapshot)
}

func TestLoop_CallWhenStopped(t *testing.T) {
	l := New(1, nil)
	err := l.Call(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestLoop_RunTwice(t *testing.T) {
	l := startLoop(t)
	err := l.Run(context.Background())
	assert.Error(t, err)
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	l := startLoop(t)

	l.Post(func() { panic("boom") })

	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_AfterFuncFires(t *testing.T) {
	l := startLoop(t)

	var fired atomic.Int32
	l.Post(func() {
		l.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })
	})

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

func TestLoop_AfterFuncStopped(t *testing.T) {
	l := startLoop(t)

	var fired atomic.Int32
	var stopped bool
	require.NoError(t, l.Call(context.Background(), func() {
		timer := l.AfterFunc(20*time.Millisecond, func() { fired.Add(1) })
		stopped = timer.Stop()
	}))
	assert.True(t, stopped)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestPostScheduler_StopAfterFireButBeforeDelivery(t *testing.T) {
	// Collect posted callbacks instead of running them, so the wall-clock
	// timer fires while delivery is still pending.
	posted := make(chan func(), 1)
	s := NewScheduler(func(fn func()) { posted <- fn })

	fired := false
	timer := s.AfterFunc(time.Millisecond, func() { fired = true })

	var deliver func()
	select {
	case deliver = <-posted:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	assert.True(t, timer.Stop(), "stop should win while the callback is queued")
	deliver()
	assert.False(t, fired)
	assert.False(t, timer.Stop(), "second stop is a no-op")
}

func TestPostScheduler_StopAfterRun(t *testing.T) {
	posted := make(chan func(), 1)
	s := NewScheduler(func(fn func()) { posted <- fn })

	fired := false
	timer := s.AfterFunc(time.Millisecond, func() { fired = true })
	(<-posted)()

	assert.True(t, fired)
	assert.False(t, timer.Stop())
}

func TestLoop_CallCancelledWhileRunning(t *testing.T) {
	l := startLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := false
	err := l.Call(ctx, func() {
		cancel()
		time.Sleep(20 * time.Millisecond)
		ran = true
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestLoop_CallCancelledBeforeRun(t *testing.T) {
	l := startLoop(t)

	release := make(chan struct{})
	l.Post(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var ran atomic.Bool
	err := l.Call(ctx, func() { ran.Store(true) })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.False(t, ran.Load())
}

func TestLoop_PostAfterStopDoesNotBlock(t *testing.T) {
	l := New(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.running
	}, time.Second, time.Millisecond)
	cancel()
	<-errCh

	posted := make(chan struct{})
	go func() {
		defer close(posted)
		for range 5 {
			l.Post(func() {})
		}
	}()

	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("Post blocked on a stopped loop")
	}

	// Timers firing after shutdown are dropped the same way
	var fired atomic.Int32
	for range 5 {
		l.AfterFunc(0, func() { fired.Add(1) })
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
