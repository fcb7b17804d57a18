package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastui.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"top-left\"\n"), 0644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	var (
		mu     sync.Mutex
		loaded *Config
	)
	w.SetReloadCallback(func(cfg *Config) {
		mu.Lock()
		defer mu.Unlock()
		loaded = cfg
	})

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"bottom-right\"\n"), 0644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return loaded != nil && loaded.Stack.Position == "bottom-right"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toastui.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	errCh := make(chan error, 1)
	w.SetErrorCallback(func(err error) {
		select {
		case errCh <- err:
		default:
		}
	})
	w.SetReloadCallback(func(cfg *Config) {
		t.Errorf("unexpected reload: %+v", cfg.Stack)
	})

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("[stack]\nposition = \"nowhere\"\n"), 0644))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrInvalidPosition)
	case <-time.After(2 * time.Second):
		t.Fatal("expected error callback")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toastui.toml")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan struct{}, 1)
	w.SetReloadCallback(func(*Config) { reloaded <- struct{}{} })

	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0644))

	select {
	case <-reloaded:
		t.Fatal("reload triggered by unrelated file")
	case <-time.After(150 * time.Millisecond):
	}
}
