package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndListSessions(t *testing.T) {
	s := openTestStore(t)

	first := &Session{
		StartedAtMs:      1000,
		EndedAtMs:        5000,
		OutputPath:       "a.csv",
		TotalEvents:      42,
		PointerMoves:     30,
		Clicks:           8,
		KeyPresses:       4,
		MeanPointerSpeed: 512.25,
		LastActiveApp:    "editor",
		LastBackground:   12,
		DroppedLines:     0,
	}
	second := &Session{
		StartedAtMs:   9000,
		EndedAtMs:     9500,
		OutputPath:    "b.csv",
		LastActiveApp: "terminal",
	}

	if _, err := s.InsertSession(first); err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}
	id, err := s.InsertSession(second)
	if err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}
	if id == 0 {
		t.Error("InsertSession() returned id 0")
	}

	sessions, err := s.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListSessions() returned %d sessions, want 2", len(sessions))
	}
	// Most recent first.
	if sessions[0].OutputPath != "b.csv" {
		t.Errorf("sessions[0].OutputPath = %q, want %q", sessions[0].OutputPath, "b.csv")
	}
	got := sessions[1]
	if got.TotalEvents != 42 || got.PointerMoves != 30 || got.Clicks != 8 || got.KeyPresses != 4 {
		t.Errorf("counts = (%d,%d,%d,%d), want (42,30,8,4)",
			got.TotalEvents, got.PointerMoves, got.Clicks, got.KeyPresses)
	}
	if got.MeanPointerSpeed != 512.25 {
		t.Errorf("MeanPointerSpeed = %v, want 512.25", got.MeanPointerSpeed)
	}
	if got.LastActiveApp != "editor" || got.LastBackground != 12 {
		t.Errorf("context = (%q,%d), want (editor,12)", got.LastActiveApp, got.LastBackground)
	}
}

func TestListSessionsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := int64(0); i < 5; i++ {
		if _, err := s.InsertSession(&Session{StartedAtMs: i * 100, OutputPath: "x.csv"}); err != nil {
			t.Fatalf("InsertSession() error = %v", err)
		}
	}
	sessions, err := s.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("ListSessions(2) returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].StartedAtMs != 400 {
		t.Errorf("sessions[0].StartedAtMs = %d, want 400", sessions[0].StartedAtMs)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.InsertSession(&Session{StartedAtMs: 1, OutputPath: "x.csv"}); err != nil {
		t.Fatalf("InsertSession() error = %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s2.Close()
	sessions, err := s2.ListSessions(0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("ListSessions() after reopen returned %d sessions, want 1", len(sessions))
	}
}
