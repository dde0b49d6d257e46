package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument indicates a malformed query parameter (negative hop
// count, unrecognized direction or strategy).
var ErrInvalidArgument = errors.New("invalid argument")

// Direction selects which adjacency index a traversal follows.
type Direction uint8

const (
	// DirectionOut follows outgoing edges (descendants).
	DirectionOut Direction = iota
	// DirectionIn follows incoming edges (ancestors).
	DirectionIn
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection converts the wire form ("out"/"in") used by workload files
// and CLI flags into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "out":
		return DirectionOut, nil
	case "in":
		return DirectionIn, nil
	default:
		return 0, fmt.Errorf("%w: direction must be \"out\" or \"in\", got %q", ErrInvalidArgument, s)
	}
}
