// Package loop provides the single-goroutine event loop and the cancellable
// deferred callbacks the toast stack runs on.
package loop
