package toast

import "github.com/jmylchreest/toastui/internal/model"

// IDGenerator hands out strictly increasing notification IDs starting at 1.
// It is never reset, so an ID is never reused within a stack's lifetime.
type IDGenerator struct {
	last model.ID
}

// Next returns the next ID.
func (g *IDGenerator) Next() model.ID {
	g.last++
	return g.last
}

// Last returns the most recently issued ID, or 0 if none was issued.
func (g *IDGenerator) Last() model.ID {
	return g.last
}
