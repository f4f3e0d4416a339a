package onboard

import (
	"context"
	"testing"
)

func TestSession_TranscriptAppendOrder(t *testing.T) {
	s := newSession("t")
	s.appendTranscript("I'm Raj,")
	s.appendTranscript("29, carpenter")
	if got := s.Transcript(); got != " I'm Raj, 29, carpenter" {
		t.Fatalf("unexpected transcript %q", got)
	}
	s.replaceTranscript("edited")
	if got := s.Transcript(); got != "edited" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestSession_FieldsNilWhenEmpty(t *testing.T) {
	s := newSession("t")
	if s.Fields() != nil {
		t.Fatalf("expected nil fields for fresh session")
	}
	s.setFields(map[string]any{"name": "Raj"})
	f := s.Fields()
	if f == nil || f["name"] != "Raj" {
		t.Fatalf("expected stored fields, got %v", f)
	}
	// Snapshot isolation: mutating the copy must not touch the session.
	f["name"] = "X"
	if s.Fields()["name"] != "Raj" {
		t.Fatalf("session fields mutated through snapshot")
	}
}

func TestSession_ResetClearsState(t *testing.T) {
	s := newSession("t")
	s.appendTranscript("hello")
	s.setFields(map[string]any{"name": "Raj"})
	s.reset()
	if s.Transcript() != "" {
		t.Fatalf("expected empty transcript after reset")
	}
	if s.Fields() != nil {
		t.Fatalf("expected empty fields after reset")
	}
}

func TestSession_TaskRegistry(t *testing.T) {
	s := newSession("t")
	_, cancel1 := context.WithCancel(context.Background())
	id1 := s.registerTask(cancel1)
	ctx2, cancel2 := context.WithCancel(context.Background())
	s.registerTask(cancel2)
	if s.taskCount() != 2 {
		t.Fatalf("expected 2 tracked tasks, got %d", s.taskCount())
	}

	s.deregisterTask(id1)
	if s.taskCount() != 1 {
		t.Fatalf("expected 1 tracked task, got %d", s.taskCount())
	}
	// Double deregistration is a no-op.
	s.deregisterTask(id1)

	s.disconnect()
	if s.Connected() {
		t.Fatalf("expected disconnected session")
	}
	select {
	case <-ctx2.Done():
	default:
		t.Fatalf("expected remaining task cancelled at disconnect")
	}
}
