package workflow

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sessions hosts one Workflow per wizard session. Each session still has a
// single writer (its UI session); the map itself is guarded for concurrent
// request handlers.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Workflow
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Workflow)}
}

// Open creates a session and returns its id.
func (s *Sessions) Open() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = New()
	return id
}

func (s *Sessions) Get(id string) (*Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown workflow session %s", id)
	}
	return w, nil
}

// Close discards a session, as on completion or navigation away.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
