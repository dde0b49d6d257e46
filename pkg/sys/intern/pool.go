// Package intern deduplicates repeated strings behind stable uint32 handles.
// Edge labels in the provenance dump repeat heavily (a handful of relation
// kinds across ~450K edges), so ingestion interns them instead of holding one
// string per edge.
package intern

import "sync"

type pool struct {
	mu      sync.RWMutex
	store   map[string]uint32
	reverse []string
}

var globalPool = &pool{
	store:   make(map[string]uint32),
	reverse: make([]string, 0, 64),
}

// InvalidID is the handle for the empty string.
const InvalidID uint32 = 0

// Get returns the unique handle for s, allocating a new one if necessary.
// Handles are 1-based so 0 stays a sentinel.
func Get(s string) uint32 {
	if s == "" {
		return InvalidID
	}

	globalPool.mu.RLock()
	id, ok := globalPool.store[s]
	globalPool.mu.RUnlock()
	if ok {
		return id
	}

	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()

	// Double-check under the write lock.
	if id, ok := globalPool.store[s]; ok {
		return id
	}

	globalPool.reverse = append(globalPool.reverse, s)
	id = uint32(len(globalPool.reverse))
	globalPool.store[s] = id
	return id
}

// GetStr returns the string for the given handle.
func GetStr(id uint32) string {
	if id == InvalidID {
		return ""
	}
	globalPool.mu.RLock()
	defer globalPool.mu.RUnlock()

	idx := int(id) - 1
	if idx < 0 || idx >= len(globalPool.reverse) {
		return ""
	}
	return globalPool.reverse[idx]
}

// Reset clears the pool. Test helper.
func Reset() {
	globalPool.mu.Lock()
	defer globalPool.mu.Unlock()
	globalPool.store = make(map[string]uint32)
	globalPool.reverse = make([]string, 0, 64)
}
