package display

import (
	"log/slog"
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
)

// pickMonitor returns the monitor for popups. n is 1-indexed; 0 leaves the
// choice to the compositor and returns nil. An out-of-range n falls back to
// the first monitor.
func pickMonitor(display *gdk.Display, n int, logger *slog.Logger) *gdk.Monitor {
	if display == nil || n <= 0 {
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		logger.Warn("no monitors available")
		return nil
	}

	index := uint(n - 1)
	if index >= monitors.NItems() {
		logger.Warn("configured monitor not available, using first",
			"configured", n,
			"available", monitors.NItems(),
		)
		index = 0
	}

	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor converts a list item to a gdk.Monitor. gotk4 does not export
// its own wrapper, but gdk.Monitor is a struct around *glib.Object.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}
