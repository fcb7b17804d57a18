// Package daemon wires a toast stack to its surroundings. It connects the
// stack manager to the D-Bus server, the optional freedesktop bridge, the
// audio cues and configuration hot-reload, independent of which host
// (terminal, GTK or headless) draws the toasts.
package daemon
