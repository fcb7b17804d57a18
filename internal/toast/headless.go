package toast

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
)

// LogRenderer is a Renderer for hosts without a screen. Nodes only exist as
// log lines, and exit transitions complete after a fixed delay on the scheduler.
type LogRenderer struct {
	logger    *slog.Logger
	sched     loop.Scheduler
	exitDelay time.Duration
	nodes     map[model.ID]bool
}

// NewLogRenderer creates a headless renderer.
func NewLogRenderer(sched loop.Scheduler, exitDelay time.Duration, logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{
		logger:    logger,
		sched:     sched,
		exitDelay: exitDelay,
		nodes:     make(map[model.ID]bool),
	}
}

// Append implements Renderer.
func (r *LogRenderer) Append(n model.Notification, pos model.Position) {
	r.nodes[n.ID] = true
	r.logger.Info("toast", "toast_id", n.ID, "variant", n.Variant, "position", pos, "message", n.Message)
}

// Exit implements Renderer.
func (r *LogRenderer) Exit(id model.ID, done func()) {
	r.sched.AfterFunc(r.exitDelay, done)
}

// Remove implements Renderer.
func (r *LogRenderer) Remove(id model.ID) {
	if r.nodes[id] {
		delete(r.nodes, id)
		r.logger.Info("toast removed", "toast_id", id)
	}
}

// Reset implements Renderer.
func (r *LogRenderer) Reset() {
	if len(r.nodes) > 0 {
		r.logger.Info("toasts cleared", "count", len(r.nodes))
	}
	r.nodes = make(map[model.ID]bool)
}

// Len returns the number of nodes currently "drawn".
func (r *LogRenderer) Len() int {
	return len(r.nodes)
}
