package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

type fakeSink struct {
	mu      sync.Mutex
	played  []string
	volumes []float64
	err     error
}

func (s *fakeSink) Play(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, path)
	return s.err
}

func (s *fakeSink) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, v)
}

func (s *fakeSink) Played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.played...)
}

func audioSettings(enabled bool) AudioSettingsFunc {
	return func() config.AudioConfig {
		return config.AudioConfig{
			Enabled: enabled,
			Volume:  50,
			Sounds: config.SoundConfig{
				Success: "/sounds/success.wav",
				Danger:  "/sounds/danger.ogg",
			},
		}
	}
}

func startCues(t *testing.T, sink Sink, settings AudioSettingsFunc) *Cues {
	t.Helper()
	c := NewCues(sink, settings, nil)
	c.Start(context.Background())
	t.Cleanup(c.Stop)
	return c
}

func TestCues_PlaysPerVariant(t *testing.T) {
	sink := &fakeSink{}
	c := startCues(t, sink, audioSettings(true))

	c.Emit(toast.Event{Kind: toast.EventShown, ID: 1, Variant: model.VariantSuccess})
	c.Emit(toast.Event{Kind: toast.EventShown, ID: 2, Variant: model.VariantDanger})

	assert.Eventually(t, func() bool { return len(sink.Played()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"/sounds/success.wav", "/sounds/danger.ogg"}, sink.Played())

	sink.mu.Lock()
	assert.Equal(t, 0.5, sink.volumes[0])
	sink.mu.Unlock()
}

func TestCues_SkipsWhenDisabledOrUnconfigured(t *testing.T) {
	sink := &fakeSink{}
	c := startCues(t, sink, audioSettings(false))
	c.Emit(toast.Event{Kind: toast.EventShown, ID: 1, Variant: model.VariantSuccess})

	enabled := startCues(t, sink, audioSettings(true))
	enabled.Emit(toast.Event{Kind: toast.EventShown, ID: 2, Variant: model.VariantInfo})
	enabled.Emit(toast.Event{Kind: toast.EventDismissed, ID: 3, Variant: model.VariantSuccess})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sink.Played())
}

func TestCues_PlayErrorKeepsRunning(t *testing.T) {
	sink := &fakeSink{err: errors.New("no speaker")}
	c := startCues(t, sink, audioSettings(true))

	c.Emit(toast.Event{Kind: toast.EventShown, ID: 1, Variant: model.VariantSuccess})
	c.Emit(toast.Event{Kind: toast.EventShown, ID: 2, Variant: model.VariantSuccess})

	assert.Eventually(t, func() bool { return len(sink.Played()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestCues_StopIsIdempotent(t *testing.T) {
	c := NewCues(&fakeSink{}, audioSettings(true), nil)
	c.Stop()
	c.Start(context.Background())
	c.Stop()
	c.Stop()
}
