package assistant

import (
	"sync"

	"github.com/mamadbah2/acai-manager/pkg/clients/anthropic"
)

// DefaultSession is used when the caller does not identify its conversation.
const DefaultSession = "default"

// History keeps the recent turns of each conversation in memory.
type History struct {
	mu       sync.RWMutex
	sessions map[string][]anthropic.Message
	maxTurns int
}

// NewHistory creates a history that retains at most maxTurns messages per
// session, rounded up to whole exchanges.
func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	if maxTurns%2 != 0 {
		maxTurns++
	}
	return &History{
		sessions: make(map[string][]anthropic.Message),
		maxTurns: maxTurns,
	}
}

// Get returns a copy of the turns recorded for sessionID.
func (h *History) Get(sessionID string) []anthropic.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	turns := h.sessions[key(sessionID)]
	out := make([]anthropic.Message, len(turns))
	copy(out, turns)
	return out
}

// Record appends one user/assistant exchange, dropping the oldest turns.
func (h *History) Record(sessionID, prompt, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := key(sessionID)
	turns := append(h.sessions[k],
		anthropic.Message{Role: "user", Content: prompt},
		anthropic.Message{Role: "assistant", Content: reply},
	)
	if len(turns) > h.maxTurns {
		turns = turns[len(turns)-h.maxTurns:]
	}
	h.sessions[k] = turns
}

// Clear removes a session.
func (h *History) Clear(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, key(sessionID))
}

func key(sessionID string) string {
	if sessionID == "" {
		return DefaultSession
	}
	return sessionID
}
