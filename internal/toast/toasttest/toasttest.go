// Package toasttest provides deterministic fakes for driving a toast.Manager
// in tests: a manual-clock scheduler, a recording renderer and an event recorder.
package toasttest

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Scheduler is a loop.Scheduler driven by a manual clock.
type Scheduler struct {
	now    time.Duration
	seq    int
	timers []*Timer
}

// Timer is a pending callback of a fake Scheduler.
type Timer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// Stop implements loop.Timer.
func (t *Timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether the timer was cancelled.
func (t *Timer) Stopped() bool { return t.stopped }

// Fired reports whether the callback ran.
func (t *Timer) Fired() bool { return t.fired }

// NewScheduler creates a fake scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AfterFunc implements loop.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	s.seq++
	t := &Timer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due in deadline order. Callbacks may schedule further timers.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var due []*Timer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// Now returns the elapsed fake time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending returns the number of timers that are neither stopped nor fired.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Timers returns every timer created so far.
func (s *Scheduler) Timers() []*Timer {
	return slices.Clone(s.timers)
}

// Renderer records what a Manager asks it to draw. Exit transitions stay
// pending until FinishExit is called.
type Renderer struct {
	nodes     []model.ID
	positions map[model.ID]model.Position
	exits     map[model.ID]func()
	Calls     []string
}

// NewRenderer creates an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		positions: make(map[model.ID]model.Position),
		exits:     make(map[model.ID]func()),
	}
}

// Append implements toast.Renderer.
func (r *Renderer) Append(n model.Notification, pos model.Position) {
	r.nodes = append(r.nodes, n.ID)
	r.positions[n.ID] = pos
	r.Calls = append(r.Calls, fmt.Sprintf("append %d", n.ID))
}

// Exit implements toast.Renderer.
func (r *Renderer) Exit(id model.ID, done func()) {
	r.exits[id] = done
	r.Calls = append(r.Calls, fmt.Sprintf("exit %d", id))
}

// Remove implements toast.Renderer.
func (r *Renderer) Remove(id model.ID) {
	r.nodes = slices.DeleteFunc(r.nodes, func(x model.ID) bool { return x == id })
	delete(r.positions, id)
	r.Calls = append(r.Calls, fmt.Sprintf("remove %d", id))
}

// Reset implements toast.Renderer.
func (r *Renderer) Reset() {
	r.nodes = nil
	r.positions = make(map[model.ID]model.Position)
	r.Calls = append(r.Calls, "reset")
}

// Nodes returns the IDs of the nodes currently drawn, in append order.
func (r *Renderer) Nodes() []model.ID {
	return slices.Clone(r.nodes)
}

// Position returns the position a node was appended with.
func (r *Renderer) Position(id model.ID) (model.Position, bool) {
	p, ok := r.positions[id]
	return p, ok
}

// Exiting reports whether an exit transition for id is pending.
func (r *Renderer) Exiting(id model.ID) bool {
	_, ok := r.exits[id]
	return ok
}

// FinishExit completes the pending exit transition for id.
// It returns false if none is pending.
func (r *Renderer) FinishExit(id model.ID) bool {
	done, ok := r.exits[id]
	if !ok {
		return false
	}
	delete(r.exits, id)
	done()
	return true
}

// FinishAll completes every pending exit transition in ID order.
func (r *Renderer) FinishAll() {
	ids := make([]model.ID, 0, len(r.exits))
	for id := range r.exits {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r.FinishExit(id)
	}
}

// Recorder collects emitted events.
type Recorder struct {
	Events []toast.Event
}

// Emit implements toast.Emitter.
func (r *Recorder) Emit(ev toast.Event) {
	r.Events = append(r.Events, ev)
}

// Of returns the recorded events of the given kind.
func (r *Recorder) Of(kind toast.EventKind) []toast.Event {
	var out []toast.Event
	for _, ev := range r.Events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Kinds returns the sequence of recorded event kinds with their IDs, e.g. "toast-show 1".
func (r *Recorder) Kinds() []string {
	out := make([]string, len(r.Events))
	for i, ev := range r.Events {
		out[i] = fmt.Sprintf("%s %d", ev.Kind, ev.ID)
	}
	return out
}
