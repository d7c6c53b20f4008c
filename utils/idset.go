package utils

import (
	"strings"
	"sync"
)

// ListingID derives the canonical identifier of a listing from its link:
// the trailing numeric path segment, with query string and fragment
// stripped. The same listing reached through different query parameters
// therefore maps to one id. Links without a numeric tail fall back to the
// normalized link itself.
func ListingID(link string) string {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	link = strings.TrimRight(link, "/")

	if i := strings.LastIndex(link, "/"); i >= 0 {
		tail := link[i+1:]
		if tail != "" && isDigits(tail) {
			return tail
		}
	}
	return link
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// IDSet is a thread-safe set of canonical listing ids.
type IDSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewIDSet creates an empty IDSet.
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[string]struct{})}
}

// Add returns true if the id was newly added, false if already present.
func (s *IDSet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[id]; exists {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Contains returns true if the id has already been admitted.
func (s *IDSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[id]
	return exists
}

// Size returns the number of unique ids tracked.
func (s *IDSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
