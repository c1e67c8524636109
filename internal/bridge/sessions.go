package bridge

import (
	"sync"

	"github.com/google/uuid"

	"go.withmatt.com/paperdrop/internal/upload"
)

// Sessions hands an upload intent from the coordinator to the dialog it is
// about to open. Each handoff gets a generated identifier the dialog carries
// back; there is no shared "current intent" slot, so concurrent dialogs cannot
// trample each other.
type Sessions struct {
	mu      sync.Mutex
	pending map[string]upload.Intent
}

func NewSessions() *Sessions {
	return &Sessions{pending: make(map[string]upload.Intent)}
}

// Put stores an intent snapshot and returns its session id.
func (s *Sessions) Put(intent upload.Intent) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.pending[id] = intent
	s.mu.Unlock()
	return id
}

// Take reads and removes the intent for a session id. A dialog hydrates from
// its session exactly once; a second Take reports absence.
func (s *Sessions) Take(id string) (upload.Intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return intent, ok
}

// Len reports how many handoffs are outstanding.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
