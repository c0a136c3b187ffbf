package utils

import "sync"

// CodeTracker tracks listing codes that were already visited, so the detail
// pass never fetches the same ficha twice when a code repeats across pages.
type CodeTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewCodeTracker creates a new tracker
func NewCodeTracker() *CodeTracker {
	return &CodeTracker{seen: make(map[string]struct{})}
}

// Add returns true if the code is new (not seen before), false if duplicate
func (t *CodeTracker) Add(code string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.seen[code]; exists {
		return false
	}
	t.seen[code] = struct{}{}
	return true
}

// Count returns the number of tracked codes
func (t *CodeTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
