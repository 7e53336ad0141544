// Package dedupe tracks keys that were already seen.
package dedupe

import "sync"

// Deduper records seen keys to ensure each is accepted at most once.
type Deduper[K comparable] interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(key K) bool
	Size() int
}

// Set implements Deduper in memory. It is safe for concurrent use.
type Set[K comparable] struct {
	mu   sync.Mutex
	seen map[K]struct{}
}

// New creates an empty Set.
func New[K comparable]() *Set[K] {
	return &Set[K]{seen: make(map[K]struct{})}
}

// SeenAndRecord implements Deduper.
func (s *Set[K]) SeenAndRecord(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}

// Size returns the number of remembered keys.
func (s *Set[K]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
