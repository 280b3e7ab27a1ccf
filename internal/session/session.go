// Package session tracks per-session conversation history for follow-up
// questions. History is bounded, so long-running sessions stay cheap.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Exchange is one completed question/answer pair.
type Exchange struct {
	Query  string
	Answer string
}

// Manager holds conversation history per session, safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	maxHistory int
	sessions   map[string][]Exchange
}

// NewManager creates a manager. maxHistory is the number of exchanges kept
// per session; older ones are dropped.
func NewManager(maxHistory int) *Manager {
	return &Manager{
		maxHistory: maxHistory,
		sessions:   map[string][]Exchange{},
	}
}

// CreateSession registers a new empty session and returns its ID.
func (m *Manager) CreateSession() string {
	id := fmt.Sprintf("session-%s", uuid.NewString())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = nil
	return id
}

// AddExchange appends a question/answer pair, trimming to the history limit.
// Unknown session IDs are created implicitly.
func (m *Manager) AddExchange(sessionID, query, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.sessions[sessionID], Exchange{Query: query, Answer: answer})
	if len(history) > m.maxHistory {
		history = history[len(history)-m.maxHistory:]
	}
	m.sessions[sessionID] = history
}

// History returns the session's exchanges formatted for the system prompt,
// or an empty string for unknown or empty sessions.
func (m *Manager) History(sessionID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.sessions[sessionID]
	if len(history) == 0 {
		return ""
	}

	lines := make([]string, 0, len(history)*2)
	for _, exchange := range history {
		lines = append(lines, "User: "+exchange.Query)
		lines = append(lines, "Assistant: "+exchange.Answer)
	}
	return strings.Join(lines, "\n")
}

// Clear removes a session's history.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
