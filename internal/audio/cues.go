package audio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Sink plays a sound file. *Player is the production implementation.
type Sink interface {
	Play(path string) error
	SetVolume(volume float64)
}

// AudioSettingsFunc returns the audio settings in effect right now.
type AudioSettingsFunc func() config.AudioConfig

type cue struct {
	path   string
	volume int
}

// Cues plays the configured sound for each shown toast. It implements
// toast.Emitter; decoding and playback happen on a worker goroutine so
// the event loop never blocks on disk or the speaker.
type Cues struct {
	mu       sync.Mutex
	logger   *slog.Logger
	sink     Sink
	settings AudioSettingsFunc

	queue   chan cue
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewCues creates a cue player. Settings are read on every event.
func NewCues(sink Sink, settings AudioSettingsFunc, logger *slog.Logger) *Cues {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cues{
		logger:   logger,
		sink:     sink,
		settings: settings,
		queue:    make(chan cue, 8),
	}
}

// Emit implements toast.Emitter.
func (c *Cues) Emit(ev toast.Event) {
	if ev.Kind != toast.EventShown {
		return
	}

	a := c.settings()
	if !a.Enabled {
		return
	}
	path := a.Sounds.For(ev.Variant)
	if path == "" {
		return
	}

	select {
	case c.queue <- cue{path: path, volume: a.Volume}:
	default:
		c.logger.Debug("audio queue full, dropping cue", "toast_id", ev.ID, "path", path)
	}
}

// Start begins playing queued cues.
func (c *Cues) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	go c.playLoop(ctx)
}

// Stop stops the worker and waits for it to exit.
func (c *Cues) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopCh)
	c.mu.Unlock()

	<-c.doneCh
}

func (c *Cues) playLoop(ctx context.Context) {
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case q := <-c.queue:
			c.sink.SetVolume(float64(q.volume) / 100.0)
			if err := c.sink.Play(q.path); err != nil {
				c.logger.Warn("failed to play sound", "path", q.path, "error", err)
			}
		}
	}
}
