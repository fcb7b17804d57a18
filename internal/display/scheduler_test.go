package display

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queuedPost holds posted callbacks until the test runs them.
type queuedPost struct {
	cbs chan func()
}

func newQueuedPost() *queuedPost {
	return &queuedPost{cbs: make(chan func(), 1)}
}

func (q *queuedPost) post(cb func()) { q.cbs <- cb }

func TestDispatch_RunsFn(t *testing.T) {
	ran := false
	err := dispatch(context.Background(), func() { ran = true }, func(cb func()) { cb() })
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestDispatch_CancelledWhileRunningReportsSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := newQueuedPost()
	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- dispatch(ctx, func() {
			close(started)
			<-release
		}, q.post)
	}()

	go (<-q.cbs)()
	<-started
	cancel()
	close(release)

	assert.NoError(t, <-result)
}

func TestDispatch_CancelledBeforeRunSkipsFn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	q := newQueuedPost()
	ran := false
	result := make(chan error, 1)
	go func() {
		result <- dispatch(ctx, func() { ran = true }, q.post)
	}()

	cb := <-q.cbs
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)

	// The main loop gets to the callback after the caller gave up
	cb()
	assert.False(t, ran)
}

func TestDispatch_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := dispatch(ctx, func() { ran = true }, func(cb func()) { cb() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
