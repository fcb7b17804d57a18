package toast

import (
	"slices"

	"github.com/jmylchreest/toastui/internal/model"
)

// Renderer is the visual layer a Manager drives.
type Renderer interface {
	// Append adds a node for n to the end of the stack. pos is the position in
	// effect when the notification was shown and decides the stacking direction.
	Append(n model.Notification, pos model.Position)
	// Exit starts the exit transition of the node for id and calls done exactly
	// once when it has finished playing. done may be called at any later time
	// but never synchronously from inside Exit.
	Exit(id model.ID, done func())
	// Remove drops the node for id.
	Remove(id model.ID)
	// Reset drops every node at once, without transitions.
	Reset()
}

// VisualOrder returns entries in top-to-bottom screen order for pos.
// Top stacks grow downwards, so the insertion order is kept. Bottom stacks
// grow upwards and show the newest entry on top.
func VisualOrder(entries []model.Notification, pos model.Position) []model.Notification {
	out := slices.Clone(entries)
	if pos.IsBottom() {
		slices.Reverse(out)
	}
	return out
}
