package chat

import (
	"testing"
	"time"
)

func TestNewMessageFields(t *testing.T) {
	before := time.Now().UTC()
	msg := NewMessage("Hello", true)

	if msg.Content != "Hello" {
		t.Fatalf("unexpected content: %q", msg.Content)
	}
	if !msg.IsUser {
		t.Fatal("expected user message")
	}
	if msg.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if msg.Timestamp.Before(before) {
		t.Fatalf("timestamp %v before creation %v", msg.Timestamp, before)
	}
}

func TestNewMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewMessageID()
		if seen[id] {
			t.Fatalf("duplicate id after %d calls: %s", i, id)
		}
		seen[id] = true
	}
}
