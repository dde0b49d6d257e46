package graph

import "errors"

var (
	// ErrUnknownNode indicates a node name absent from the identifier map.
	ErrUnknownNode = errors.New("unknown node")
	// ErrInvalidID indicates a node id outside [0, NumNodes).
	ErrInvalidID = errors.New("node id out of range")
)
