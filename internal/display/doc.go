// Package display draws the toast stack as GTK4 layer-shell popups.
// Every popup is its own layer-shell surface anchored to the configured
// corner; the renderer stacks them by offsetting their margins. All calls
// must happen on the GLib main loop.
package display
