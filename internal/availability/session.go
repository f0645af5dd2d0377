package availability

import "sync"

// Session serializes the results of overlapping availability checks fired
// by rapid date-range edits. Each check is tagged with a monotonically
// increasing request id; only the response matching the latest issued id
// may publish, so a slow early response can never overwrite the outcome of
// a newer check (in particular, a late success never clobbers a newer
// fail-closed result).
type Session struct {
	mu       sync.Mutex
	issued   uint64
	resultID uint64
	result   []Conflict
	hasValue bool
}

func NewSession() *Session {
	return &Session{}
}

// Begin issues the next request id.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Publish records the conflicts for a request id. It returns false, and
// discards the value, unless id is the latest issued id.
func (s *Session) Publish(id uint64, conflicts []Conflict) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.issued {
		return false
	}
	s.resultID = id
	s.result = conflicts
	s.hasValue = true
	return true
}

// Latest returns the most recently published conflict set, if any.
func (s *Session) Latest() ([]Conflict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.hasValue
}
