// Package dbus exposes a toast stack on the session bus.
//
// The io.github.jmylchreest.Toastui interface offers Show, Dismiss, Clear
// and List methods and broadcasts Shown and Dismissed signals (the
// "toast-show" and "toast-dismiss" events). An optional bridge also claims
// org.freedesktop.Notifications so that notify-send and other
// applications post toasts. Client and Monitor drive a running host from
// another process.
package dbus
