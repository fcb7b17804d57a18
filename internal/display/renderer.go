package display

import (
	"log/slog"
	"slices"
	"time"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

const (
	// relayoutDelay gives fresh popups time to be allocated before the
	// stack is laid out with their real heights.
	relayoutDelay = 50 * time.Millisecond
	ageInterval   = time.Second
)

// Renderer implements toast.Renderer with layer-shell popups.
type Renderer struct {
	app     *gtk.Application
	holder  *config.Holder
	sched   loop.Scheduler
	logger  *slog.Logger
	display *gdk.Display

	onClose func(id model.ID)

	order    []model.ID
	popups   map[model.ID]*Popup
	position model.Position

	relayout loop.Timer
	ager     loop.Timer

	layouts *layout.Loader
	layName string
	lay     *layout.LayoutConfig
}

var _ toast.Renderer = (*Renderer)(nil)

// NewRenderer creates a popup renderer. Settings are read from holder each
// time a popup is created or the stack is laid out.
func NewRenderer(app *gtk.Application, holder *config.Holder, sched loop.Scheduler, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	layoutsDir, err := layout.LayoutsDir()
	if err != nil {
		logger.Warn("failed to get layouts directory", "error", err)
	}
	return &Renderer{
		layouts:  layout.NewLoader(layoutsDir),
		app:      app,
		holder:   holder,
		sched:    sched,
		logger:   logger,
		popups:   make(map[model.ID]*Popup),
		position: model.DefaultPosition,
	}
}

// Start binds the renderer to the default display.
func (r *Renderer) Start() error {
	r.display = gdk.DisplayGetDefault()
	if r.display == nil {
		return &DisplayError{Message: "no display available"}
	}
	r.logger.Info("display renderer started")
	return nil
}

// SetCloseCallback sets the callback for a popup's close button. It runs
// on the main loop, so it may call the Manager directly.
func (r *Renderer) SetCloseCallback(cb func(id model.ID)) {
	r.onClose = cb
}

// Append implements toast.Renderer.
func (r *Renderer) Append(n model.Notification, pos model.Position) {
	cfg := r.holder.Load()

	p := NewPopup(r.app, n, pos, cfg, r.popupLayout(cfg.Display.Layout), r.logger)
	p.OnClose(func() {
		if r.onClose != nil {
			r.onClose(n.ID)
		}
	})

	r.popups[n.ID] = p
	r.order = append(r.order, n.ID)
	r.position = pos

	r.restack()
	p.Show(pickMonitor(r.display, cfg.Display.Monitor, r.logger))
	r.scheduleRelayout()
	r.startAger()

	r.logger.Debug("showed popup", "toast_id", n.ID, "position", pos, "popups", len(r.popups))
}

// popupLayout returns the named layout, loading it once per name change.
// Broken or missing layouts fall back to the default one.
func (r *Renderer) popupLayout(name string) *layout.LayoutConfig {
	if r.lay != nil && name == r.layName {
		return r.lay
	}

	lay, err := r.layouts.Load(name)
	if err != nil {
		r.logger.Warn("failed to load layout, using default", "layout", name, "error", err)
		lay = layout.DefaultLayout()
	}
	r.layName = name
	r.lay = lay
	return lay
}

// Exit implements toast.Renderer. done fires once the slide-out has had
// its configured time to play.
func (r *Renderer) Exit(id model.ID, done func()) {
	p, ok := r.popups[id]
	if !ok {
		r.sched.AfterFunc(0, done)
		return
	}

	p.StartExit()
	p.exitTimer = r.sched.AfterFunc(r.holder.Load().Display.ExitAnimation.Duration(), func() {
		p.exitTimer = nil
		done()
	})
}

// Remove implements toast.Renderer.
func (r *Renderer) Remove(id model.ID) {
	p, ok := r.popups[id]
	if !ok {
		return
	}
	p.Close()
	delete(r.popups, id)
	r.order = slices.DeleteFunc(r.order, func(x model.ID) bool { return x == id })
	r.restack()
}

// Reset implements toast.Renderer.
func (r *Renderer) Reset() {
	for _, p := range r.popups {
		p.Close()
	}
	r.popups = make(map[model.ID]*Popup)
	r.order = nil
	r.stopTimers()
}

// Stop closes every popup. The renderer can be reused afterwards.
func (r *Renderer) Stop() {
	r.Reset()
	r.logger.Info("display renderer stopped")
}

// Len returns the number of popups on screen.
func (r *Renderer) Len() int {
	return len(r.order)
}

// restack places the popups. The oldest toast sits at the anchored edge:
// on top stacks that is the first in visual order, on bottom stacks the last.
func (r *Renderer) restack() {
	cfg := r.holder.Load()

	ns := make([]model.Notification, 0, len(r.order))
	for _, id := range r.order {
		ns = append(ns, r.popups[id].n)
	}
	ordered := toast.VisualOrder(ns, r.position)
	if r.position.IsBottom() {
		slices.Reverse(ordered)
	}

	offset := cfg.Display.OffsetY
	for _, n := range ordered {
		p := r.popups[n.ID]
		p.Place(r.position, cfg.Display.OffsetX, offset)
		offset += p.Height() + cfg.Display.Gap
	}
}

func (r *Renderer) scheduleRelayout() {
	if r.relayout != nil {
		return
	}
	r.relayout = r.sched.AfterFunc(relayoutDelay, func() {
		r.relayout = nil
		r.restack()
	})
}

// startAger refreshes the relative ages once per second while popups exist.
func (r *Renderer) startAger() {
	if r.ager != nil {
		return
	}
	var tick func()
	tick = func() {
		r.ager = nil
		if len(r.popups) == 0 {
			return
		}
		now := time.Now()
		for _, p := range r.popups {
			p.RefreshAge(now)
		}
		r.restack()
		r.ager = r.sched.AfterFunc(ageInterval, tick)
	}
	r.ager = r.sched.AfterFunc(ageInterval, tick)
}

func (r *Renderer) stopTimers() {
	if r.relayout != nil {
		r.relayout.Stop()
		r.relayout = nil
	}
	if r.ager != nil {
		r.ager.Stop()
		r.ager = nil
	}
}
