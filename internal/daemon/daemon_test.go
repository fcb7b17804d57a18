package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

type nopSink struct{}

func (nopSink) Play(string) error { return nil }
func (nopSink) SetVolume(float64) {}

func TestDaemon_ConfigReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastui.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"top-right\"\n"), 0644))

	holder := config.NewHolder(nil)
	l, mgr := runLoop(t, holder.Settings)

	var (
		mu       sync.Mutex
		reloaded *config.Config
		events   []toast.Event
	)
	d := New(Options{
		Manager:    mgr,
		Dispatch:   l.Call,
		Holder:     holder,
		ConfigPath: path,
		Sink:       nopSink{},
		Emitter: toast.EmitterFunc(func(ev toast.Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, ev)
		}),
		OnReload: func(cfg *config.Config) {
			mu.Lock()
			defer mu.Unlock()
			reloaded = cfg
		},
	}, nil)

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
	assert.Error(t, d.Start(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"bottom-left\"\n"), 0644))

	require.Eventually(t, func() bool {
		return holder.Settings().Position == model.PositionBottomLeft
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		ns, err := d.Stack().List(context.Background())
		return err == nil && len(ns) == 1 && ns[0].Variant == model.VariantInfo
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotNil(t, reloaded)
	require.NotEmpty(t, events)
	assert.Equal(t, toast.EventShown, events[0].Kind)
	assert.Equal(t, mgr.StackID(), events[0].Stack)
	mu.Unlock()
}

func TestDaemon_ConfigErrorShowsDangerToast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastui.toml")

	holder := config.NewHolder(nil)
	l, mgr := runLoop(t, holder.Settings)

	d := New(Options{
		Manager:    mgr,
		Dispatch:   l.Call,
		Holder:     holder,
		ConfigPath: path,
		Sink:       nopSink{},
	}, nil)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"middle\"\n"), 0644))

	require.Eventually(t, func() bool {
		ns, err := d.Stack().List(context.Background())
		return err == nil && len(ns) == 1 && ns[0].Variant == model.VariantDanger
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, model.PositionTopRight, holder.Settings().Position, "previous config is kept")
}

func TestDaemon_StopWithoutStart(t *testing.T) {
	holder := config.NewHolder(nil)
	l, mgr := runLoop(t, holder.Settings)

	d := New(Options{Manager: mgr, Dispatch: l.Call, Sink: nopSink{}}, nil)
	assert.NotPanics(t, d.Stop)
}
