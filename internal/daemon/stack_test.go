package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// runLoop starts a loop with a headless manager and stops it on cleanup.
func runLoop(t *testing.T, settings toast.SettingsFunc) (*loop.Loop, *toast.Manager) {
	t.Helper()

	l := loop.New(16, nil)
	renderer := toast.NewLogRenderer(l, time.Millisecond, nil)
	mgr := toast.NewManager(renderer, l, settings, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		return l.Call(context.Background(), func() {}) == nil
	}, time.Second, time.Millisecond)

	return l, mgr
}

func TestStack_DispatchesToLoop(t *testing.T) {
	l, mgr := runLoop(t, toast.StaticSettings(toast.Settings{Position: model.PositionTopRight}))
	s := NewStack(mgr, l.Call)
	ctx := context.Background()

	id, err := s.Show(ctx, "Saved", model.VariantSuccess)
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), id)

	id, err = s.Show(ctx, "Again", model.VariantInfo)
	require.NoError(t, err)
	assert.Equal(t, model.ID(2), id)

	ns, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, ns, 2)
	assert.Equal(t, "Saved", ns[0].Message)

	require.NoError(t, s.Dismiss(ctx, 1))
	assert.Eventually(t, func() bool {
		ns, err := s.List(ctx)
		return err == nil && len(ns) == 1 && ns[0].ID == 2
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Clear(ctx))
	ns, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ns)

	assert.Equal(t, mgr.StackID(), s.StackID())
}

func TestStack_LoopStopped(t *testing.T) {
	l := loop.New(1, nil)
	mgr := toast.NewManager(toast.NewLogRenderer(l, 0, nil), l, nil, nil)
	s := NewStack(mgr, l.Call)

	_, err := s.Show(context.Background(), "x", model.VariantDefault)
	assert.True(t, errors.Is(err, loop.ErrStopped))
}
