package toast_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/toast"
	"github.com/jmylchreest/toastui/internal/toast/toasttest"
)

func TestLogRenderer_ExitCompletesAfterDelay(t *testing.T) {
	sched := toasttest.NewScheduler()
	r := toast.NewLogRenderer(sched, 200*time.Millisecond, slog.New(slog.DiscardHandler))
	events := &toasttest.Recorder{}

	mgr := toast.NewManager(r, sched, toast.StaticSettings(toast.Settings{Duration: time.Second}), nil)
	mgr.SetEmitter(events)

	mgr.Show("hello", "info")
	assert.Equal(t, 1, r.Len())

	sched.Advance(time.Second)
	assert.Equal(t, 1, r.Len(), "node stays while the exit plays")
	assert.Empty(t, events.Of(toast.EventDismissed))

	sched.Advance(200 * time.Millisecond)
	assert.Equal(t, 0, r.Len())
	assert.Len(t, events.Of(toast.EventDismissed), 1)
}

func TestLogRenderer_Reset(t *testing.T) {
	sched := toasttest.NewScheduler()
	r := toast.NewLogRenderer(sched, 0, slog.New(slog.DiscardHandler))
	mgr := toast.NewManager(r, sched, nil, nil)

	mgr.Show("a", "")
	mgr.Show("b", "")
	mgr.Clear()
	assert.Equal(t, 0, r.Len())
}
