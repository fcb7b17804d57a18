package display

import (
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/layout"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
)

// fallbackHeight is used for stacking until a popup has been allocated.
const fallbackHeight = 64

// Popup is the layer-shell window of one toast.
type Popup struct {
	n      model.Notification
	logger *slog.Logger

	window   *gtk.Window
	revealer *gtk.Revealer
	box      *gtk.Box
	ageLbl   *gtk.Label
	progress *gtk.ProgressBar
	closeBtn *gtk.Button

	// lifetime is the auto-dismiss delay the toast was shown with.
	lifetime time.Duration

	onClose func()

	exitTimer loop.Timer
	exiting   bool
	closed    bool
}

// NewPopup builds the window for n from lay. It is not shown until Show is called.
func NewPopup(app *gtk.Application, n model.Notification, pos model.Position, cfg *config.Config, lay *layout.LayoutConfig, logger *slog.Logger) *Popup {
	p := &Popup{
		n:        n,
		logger:   logger,
		lifetime: cfg.Stack.Duration.Duration(),
	}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(lay.ClampWidth(cfg.Display.Width), -1)

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "toastui")

	p.buildUI(pos, cfg, lay)
	p.connectSignals()

	return p
}

func (p *Popup) buildUI(pos model.Position, cfg *config.Config, lay *layout.LayoutConfig) {
	p.box = gtk.NewBox(gtk.OrientationHorizontal, 8)
	p.box.AddCSSClass("toast")
	p.box.AddCSSClass("variant-" + string(p.n.Variant))
	p.box.AddCSSClass(colorSchemeClass(config.ColorScheme(cfg.Theme.ColorScheme)))
	if cfg.Display.Opacity < 1.0 {
		p.box.AddCSSClass("translucent")
	}

	for _, elem := range lay.Elements {
		if w := p.buildElement(elem); w != nil {
			p.box.Append(w)
		}
	}

	p.revealer = gtk.NewRevealer()
	p.revealer.SetTransitionType(slideTransition(pos))
	p.revealer.SetTransitionDuration(uint(cfg.Display.ExitAnimation.Duration().Milliseconds()))
	p.revealer.SetRevealChild(false)
	p.revealer.SetChild(p.box)

	p.window.SetChild(p.revealer)
}

// buildElement creates the widget for one layout element. It returns nil
// for elements with nothing to show.
func (p *Popup) buildElement(elem layout.LayoutElement) gtk.Widgetter {
	var w gtk.Widgetter

	switch elem.Type {
	case layout.ElementTypeBox:
		orientation := gtk.OrientationHorizontal
		spacing := 8
		if elem.Vertical() {
			orientation = gtk.OrientationVertical
			spacing = 2
		}
		box := gtk.NewBox(orientation, spacing)
		for _, child := range elem.Children {
			if cw := p.buildElement(child); cw != nil {
				box.Append(cw)
			}
		}
		w = box

	case layout.ElementTypeIcon:
		icon := gtk.NewLabel(p.n.Variant.Icon())
		icon.AddCSSClass("toast-icon")
		icon.SetVAlign(gtk.AlignStart)
		w = icon

	case layout.ElementTypeMessage:
		msg := gtk.NewLabel(p.n.Message)
		msg.AddCSSClass("toast-message")
		msg.SetXAlign(0)
		msg.SetWrap(true)
		msg.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
		msg.SetMaxWidthChars(40)
		w = msg

	case layout.ElementTypeAge:
		p.ageLbl = gtk.NewLabel(humanize.Time(p.n.CreatedAt))
		p.ageLbl.AddCSSClass("toast-age")
		p.ageLbl.SetXAlign(0)
		w = p.ageLbl

	case layout.ElementTypeProgress:
		if p.lifetime <= 0 {
			return nil
		}
		p.progress = gtk.NewProgressBar()
		p.progress.AddCSSClass("toast-progress")
		p.progress.SetFraction(1)
		w = p.progress

	case layout.ElementTypeClose:
		p.closeBtn = gtk.NewButtonFromIconName("window-close-symbolic")
		p.closeBtn.AddCSSClass("toast-close")
		p.closeBtn.SetVAlign(gtk.AlignStart)
		p.closeBtn.SetOpacity(0)
		p.closeBtn.SetTooltipText("Dismiss")
		w = p.closeBtn

	default:
		return nil
	}

	if elem.Expand() {
		gtk.BaseWidget(w).SetHExpand(true)
	}
	return w
}

// slideTransition slides toward the edge the stack is anchored to.
func slideTransition(pos model.Position) gtk.RevealerTransitionType {
	if !pos.IsLeft() {
		return gtk.RevealerTransitionTypeSlideLeft
	}
	return gtk.RevealerTransitionTypeSlideRight
}

func (p *Popup) connectSignals() {
	if p.closeBtn == nil {
		return
	}
	p.closeBtn.ConnectClicked(func() {
		if p.onClose != nil && !p.exiting {
			p.onClose()
		}
	})

	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if !p.exiting {
			p.closeBtn.SetOpacity(1)
		}
	})
	motion.ConnectLeave(func() {
		p.closeBtn.SetOpacity(0)
	})
	p.window.AddController(motion)
}

// OnClose sets the callback for the close button.
func (p *Popup) OnClose(cb func()) {
	p.onClose = cb
}

// Show maps the window and plays the slide-in.
func (p *Popup) Show(monitor *gdk.Monitor) {
	if monitor != nil {
		layershell.SetMonitor(p.window, monitor)
	}
	p.window.Present()
	p.revealer.SetRevealChild(true)
}

// StartExit plays the slide-out. The window stays mapped until Close.
func (p *Popup) StartExit() {
	p.exiting = true
	p.box.AddCSSClass("exiting")
	if p.closeBtn != nil {
		p.closeBtn.SetSensitive(false)
		p.closeBtn.SetOpacity(0)
	}
	p.revealer.SetRevealChild(false)
}

// Close destroys the window. It is safe to call more than once.
func (p *Popup) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.exitTimer != nil {
		p.exitTimer.Stop()
		p.exitTimer = nil
	}
	p.window.Close()
	p.window.Destroy()
}

// Height returns the allocated height, or an estimate before allocation.
func (p *Popup) Height() int {
	if h := p.window.Height(); h > 0 {
		return h
	}
	return fallbackHeight
}

// Place anchors the window to pos with the given margins.
func (p *Popup) Place(pos model.Position, offsetX, offsetY int) {
	vertical := layershell.LayerShellEdgeTop
	if pos.IsBottom() {
		vertical = layershell.LayerShellEdgeBottom
	}
	horizontal := layershell.LayerShellEdgeRight
	if pos.IsLeft() {
		horizontal = layershell.LayerShellEdgeLeft
	}

	for _, edge := range []layershell.LayerShellEdge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
		layershell.LayerShellEdgeRight,
	} {
		layershell.SetAnchor(p.window, edge, edge == vertical || edge == horizontal)
		layershell.SetMargin(p.window, edge, 0)
	}
	layershell.SetMargin(p.window, vertical, offsetY)
	layershell.SetMargin(p.window, horizontal, offsetX)
}

// RefreshAge updates the relative creation time and the remaining-time bar.
func (p *Popup) RefreshAge(now time.Time) {
	if p.ageLbl != nil {
		p.ageLbl.SetText(humanize.RelTime(p.n.CreatedAt, now, "ago", "from now"))
	}
	if p.progress != nil && !p.exiting {
		p.progress.SetFraction(remainingFraction(p.n.CreatedAt, p.lifetime, now))
	}
}

// remainingFraction is the share of lifetime left at now, clamped to [0, 1].
func remainingFraction(created time.Time, lifetime time.Duration, now time.Time) float64 {
	if lifetime <= 0 {
		return 1
	}
	left := 1 - float64(now.Sub(created))/float64(lifetime)
	return max(0, min(1, left))
}

// colorSchemeClass returns "light" or "dark", asking libadwaita when the
// config follows the system.
func colorSchemeClass(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	}
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}
