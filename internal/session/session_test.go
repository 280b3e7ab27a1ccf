package session

import (
	"strings"
	"testing"
)

func TestCreateSessionIDs(t *testing.T) {
	m := NewManager(2)

	a := m.CreateSession()
	b := m.CreateSession()

	if !strings.HasPrefix(a, "session-") {
		t.Errorf("Expected session- prefix, got %q", a)
	}
	if a == b {
		t.Error("Session IDs must be unique")
	}
}

func TestHistoryFormatting(t *testing.T) {
	m := NewManager(5)
	id := m.CreateSession()

	if got := m.History(id); got != "" {
		t.Errorf("Expected empty history, got %q", got)
	}

	m.AddExchange(id, "What happened?", "A vote passed.")
	m.AddExchange(id, "Who voted?", "The assembly.")

	want := "User: What happened?\nAssistant: A vote passed.\nUser: Who voted?\nAssistant: The assembly."
	if got := m.History(id); got != want {
		t.Errorf("History mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestHistoryTrimmedToLimit(t *testing.T) {
	m := NewManager(2)
	id := m.CreateSession()

	m.AddExchange(id, "q1", "a1")
	m.AddExchange(id, "q2", "a2")
	m.AddExchange(id, "q3", "a3")

	history := m.History(id)
	if strings.Contains(history, "q1") {
		t.Error("Oldest exchange should have been dropped")
	}
	if !strings.Contains(history, "q2") || !strings.Contains(history, "q3") {
		t.Errorf("Recent exchanges missing: %q", history)
	}
}

func TestImplicitSessionAndClear(t *testing.T) {
	m := NewManager(2)

	m.AddExchange("external-id", "q", "a")
	if got := m.History("external-id"); got == "" {
		t.Error("Exchange on unknown session should create it")
	}

	m.Clear("external-id")
	if got := m.History("external-id"); got != "" {
		t.Errorf("Expected empty history after clear, got %q", got)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	m := NewManager(2)
	if got := m.History("nope"); got != "" {
		t.Errorf("Unknown session should have empty history, got %q", got)
	}
}
