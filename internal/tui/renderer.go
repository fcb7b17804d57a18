package tui

import (
	"slices"
	"time"

	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// frameInterval is the time between two frames of the exit slide.
const frameInterval = 50 * time.Millisecond

// node is a drawn toast.
type node struct {
	n       model.Notification
	exiting bool
	frame   int
	frames  int
	timer   loop.Timer
}

// progress returns how far the exit slide has played, from 0 to 1.
func (nd *node) progress() float64 {
	if !nd.exiting || nd.frames == 0 {
		return 0
	}
	return float64(nd.frame) / float64(nd.frames)
}

// Renderer keeps the terminal's visual tree of toasts. Exit transitions
// are played as a sequence of frames on the scheduler.
type Renderer struct {
	sched    loop.Scheduler
	exitTime func() time.Duration

	order    []model.ID
	nodes    map[model.ID]*node
	position model.Position
}

var _ toast.Renderer = (*Renderer)(nil)

// NewRenderer creates a terminal renderer. exitTime is read whenever an
// exit transition starts.
func NewRenderer(sched loop.Scheduler, exitTime func() time.Duration) *Renderer {
	return &Renderer{
		sched:    sched,
		exitTime: exitTime,
		nodes:    make(map[model.ID]*node),
		position: model.DefaultPosition,
	}
}

// Append implements toast.Renderer.
func (r *Renderer) Append(n model.Notification, pos model.Position) {
	r.nodes[n.ID] = &node{n: n}
	r.order = append(r.order, n.ID)
	r.position = pos
}

// Exit implements toast.Renderer.
func (r *Renderer) Exit(id model.ID, done func()) {
	nd, ok := r.nodes[id]
	if !ok {
		r.sched.AfterFunc(0, done)
		return
	}

	total := r.exitTime()
	frames := max(int(total/frameInterval), 1)
	step := total / time.Duration(frames)

	nd.exiting = true
	nd.n.State = model.StateExiting
	nd.frames = frames

	var tick func()
	tick = func() {
		nd.frame++
		if nd.frame >= nd.frames {
			nd.timer = nil
			done()
			return
		}
		nd.timer = r.sched.AfterFunc(step, tick)
	}
	nd.timer = r.sched.AfterFunc(step, tick)
}

// Remove implements toast.Renderer.
func (r *Renderer) Remove(id model.ID) {
	nd, ok := r.nodes[id]
	if !ok {
		return
	}
	if nd.timer != nil {
		nd.timer.Stop()
	}
	delete(r.nodes, id)
	r.order = slices.DeleteFunc(r.order, func(x model.ID) bool { return x == id })
}

// Reset implements toast.Renderer.
func (r *Renderer) Reset() {
	for _, nd := range r.nodes {
		if nd.timer != nil {
			nd.timer.Stop()
		}
	}
	r.order = nil
	r.nodes = make(map[model.ID]*node)
}

// Position returns the position of the most recently appended toast.
func (r *Renderer) Position() model.Position {
	return r.position
}

// Len returns the number of drawn toasts.
func (r *Renderer) Len() int {
	return len(r.order)
}

// visible returns the drawn toasts in top-to-bottom screen order.
func (r *Renderer) visible() []*node {
	ns := make([]model.Notification, 0, len(r.order))
	for _, id := range r.order {
		ns = append(ns, r.nodes[id].n)
	}
	ordered := toast.VisualOrder(ns, r.position)

	out := make([]*node, len(ordered))
	for i, n := range ordered {
		out[i] = r.nodes[n.ID]
	}
	return out
}
