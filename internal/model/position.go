package model

// Position is the screen corner a stack is anchored to.
type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionTopLeft     Position = "top-left"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

// DefaultPosition is used when no position is configured.
const DefaultPosition = PositionTopRight

// Positions returns all valid position values.
func Positions() []Position {
	return []Position{PositionTopRight, PositionTopLeft, PositionBottomRight, PositionBottomLeft}
}

// ParsePosition maps a string to a Position, falling back to DefaultPosition.
func ParsePosition(s string) Position {
	p := Position(s)
	if p.Valid() {
		return p
	}
	return DefaultPosition
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case PositionTopRight, PositionTopLeft, PositionBottomRight, PositionBottomLeft:
		return true
	default:
		return false
	}
}

// IsBottom reports whether the stack is anchored to the bottom edge.
// Bottom stacks grow upwards: the newest entry sits above the older ones.
func (p Position) IsBottom() bool {
	return p == PositionBottomRight || p == PositionBottomLeft
}

// IsLeft reports whether the stack is anchored to the left edge.
func (p Position) IsLeft() bool {
	return p == PositionTopLeft || p == PositionBottomLeft
}
