package core

import (
	"sync"
	"time"
)

// Session is the per-conversation aggregate: an append-only transcript plus
// the last routing metadata. It is safe for concurrent access.
//
// Contract:
//   - The transcript never shrinks; Append is the only mutator
//   - Snapshot returns a defensive copy safe for independent reads
//   - Windowing is applied by readers, never by physical truncation
type Session struct {
	ID          string            `json:"id"`
	Entries     []TranscriptEntry `json:"entries"`
	LastRouting *RoutingDecision  `json:"last_routing,omitempty"`
	LastHandler string            `json:"last_handler,omitempty"`
	Created     time.Time         `json:"created"`
	Updated     time.Time         `json:"updated"`
	mu          sync.RWMutex
}

// NewSession creates an empty session for the given conversation identifier.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, Entries: []TranscriptEntry{}, Created: now, Updated: now}
}

// Append adds one transcript entry and records the routing metadata of the
// turn that produced it.
func (s *Session) Append(entry TranscriptEntry, routing RoutingDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, entry)
	r := routing
	s.LastRouting = &r
	s.LastHandler = routing.Label
	s.Updated = time.Now().UTC()
}

// Len returns the current transcript length.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Entries)
}

// Snapshot returns a deep copy of the session safe for use outside the
// store's critical section.
func (s *Session) Snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:          s.ID,
		Entries:     make([]TranscriptEntry, len(s.Entries)),
		LastHandler: s.LastHandler,
		Created:     s.Created,
		Updated:     s.Updated,
	}
	copy(clone.Entries, s.Entries)
	if s.LastRouting != nil {
		r := *s.LastRouting
		clone.LastRouting = &r
	}
	return clone
}

// Store persists sessions keyed by conversation identifier. The identifier is
// untrusted external input and must be used for lookup only.
//
// Get on an unknown identifier returns a fresh empty session, never an error.
// Append is atomic per identifier; operations on distinct identifiers must
// not contend on a shared lock. Implementations are volatile by design:
// callers needing durability wrap the store.
type Store interface {
	Get(id string) (*Session, error)
	Append(id string, entry TranscriptEntry, routing RoutingDecision) error
}
