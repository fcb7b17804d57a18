// Package toast implements the notification stack manager: id allocation,
// auto-dismiss timers and the show/dismiss/clear lifecycle coordinated with
// the renderer's exit transitions.
//
// A Manager is driven by one event loop and is not safe for concurrent use.
// Every method, timer callback and exit completion must run on that loop.
package toast
