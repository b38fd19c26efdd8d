package logger

import "testing"

func TestRedact(t *testing.T) {
	in := []any{"path", "/login", "password", "hunter2", "session_token", "abc", "dangling"}
	out := redact(in)

	if out[1] != "/login" {
		t.Errorf("expected path to pass through, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Errorf("expected password to be redacted, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Errorf("expected token to be redacted, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Errorf("expected trailing key to be kept, got %v", out[6])
	}
	if in[3] != "hunter2" {
		t.Error("redact must not modify its input")
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", mode, err)
		}
		l.With("component", "test").Debug("hello", "k", "v")
	}
	Nop().Info("discarded")
}
