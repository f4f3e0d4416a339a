package onboard

import (
	"context"
	"sync"

	"github.com/Avinash0717/Nitigati/internal/profile"
)

// Session is the per-connection conversational state: the accumulated
// transcript, the latest extracted fields, and the set of in-flight
// background tasks. It is owned exclusively by its Controller and discarded
// at disconnect with no persistence.
type Session struct {
	ID string

	mu         sync.Mutex
	transcript string
	fields     profile.Fields
	connected  bool
	tasks      map[uint64]context.CancelFunc
	nextTaskID uint64
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		fields:    profile.Fields{},
		connected: true,
		tasks:     make(map[uint64]context.CancelFunc),
	}
}

// appendTranscript joins text onto the transcript with a single leading
// space, preserving chunk arrival order.
func (s *Session) appendTranscript(text string) {
	s.mu.Lock()
	s.transcript += " " + text
	s.mu.Unlock()
}

// replaceTranscript swaps in a client-supplied edit wholesale.
func (s *Session) replaceTranscript(text string) {
	s.mu.Lock()
	s.transcript = text
	s.mu.Unlock()
}

func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Fields returns a snapshot of the latest known fields, or nil when nothing
// has been extracted yet so the extractor sees a fresh session.
func (s *Session) Fields() profile.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fields) == 0 {
		return nil
	}
	return s.fields.Clone()
}

// setFields replaces the session fields; only called after a successful
// extraction, so a failed one leaves prior fields untouched.
func (s *Session) setFields(f profile.Fields) {
	s.mu.Lock()
	if f == nil {
		f = profile.Fields{}
	}
	s.fields = f
	s.mu.Unlock()
}

// reset clears both transcript and fields.
func (s *Session) reset() {
	s.mu.Lock()
	s.transcript = ""
	s.fields = profile.Fields{}
	s.mu.Unlock()
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// registerTask tracks a background task's cancel func and returns its id.
func (s *Session) registerTask(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTaskID++
	id := s.nextTaskID
	s.tasks[id] = cancel
	return id
}

// deregisterTask removes a finished task; safe to call for an already
// removed id.
func (s *Session) deregisterTask(id uint64) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
}

func (s *Session) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// disconnect marks the session torn down and cancels every live background
// task. Cancellation is best-effort: a task past its send point completes,
// but its delivery is suppressed by the connected guard.
func (s *Session) disconnect() {
	s.mu.Lock()
	s.connected = false
	cancels := make([]context.CancelFunc, 0, len(s.tasks))
	for _, c := range s.tasks {
		cancels = append(cancels, c)
	}
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}
