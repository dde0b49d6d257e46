package graph

import "fmt"

// NodeID is a dense node identifier in [0, NumNodes).
type NodeID uint32

// IDMap is the bidirectional name <-> dense id mapping. Ids are assigned in
// first-seen order while scanning the edge list, so identical input produces
// identical ids across runs. Read-only after the graph is built.
type IDMap struct {
	byName map[string]NodeID
	names  []string
}

func newIDMap() *IDMap {
	return &IDMap{
		byName: make(map[string]NodeID, 1024),
		names:  make([]string, 0, 1024),
	}
}

// add returns the id for name, allocating the next dense id if unseen.
func (m *IDMap) add(name string) NodeID {
	if id, ok := m.byName[name]; ok {
		return id
	}
	id := NodeID(len(m.names))
	m.byName[name] = id
	m.names = append(m.names, name)
	return id
}

// IDOf resolves a node name to its dense id.
func (m *IDMap) IDOf(name string) (NodeID, error) {
	id, ok := m.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return id, nil
}

// NameOf resolves a dense id back to the node name.
func (m *IDMap) NameOf(id NodeID) (string, error) {
	if int(id) >= len(m.names) {
		return "", fmt.Errorf("%w: %d (have %d nodes)", ErrInvalidID, id, len(m.names))
	}
	return m.names[id], nil
}

// Len returns the number of mapped nodes.
func (m *IDMap) Len() int {
	return len(m.names)
}
