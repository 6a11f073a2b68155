package chat

import (
	"strings"
	"testing"
)

func TestDeriveTitleFromFirstUserMessage(t *testing.T) {
	messages := []Message{NewMessage("What is blended finance?", true)}

	if got := DeriveTitle(messages); got != "What is blended finance?" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestDeriveTitleTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 45)
	messages := []Message{NewMessage(long, true)}

	got := DeriveTitle(messages)
	if got != strings.Repeat("a", 30)+"..." {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestDeriveTitleDefaultsWithoutUserMessage(t *testing.T) {
	if got := DeriveTitle(nil); !strings.HasPrefix(got, "New Chat ") {
		t.Fatalf("unexpected title: %q", got)
	}

	messages := []Message{NewMessage("welcome", false)}
	if got := DeriveTitle(messages); !strings.HasPrefix(got, "New Chat ") {
		t.Fatalf("unexpected title for assistant-first history: %q", got)
	}
}

func TestNewSessionStartsEmpty(t *testing.T) {
	session := NewSession("abc123", "general")

	if session.SessionID != "abc123" {
		t.Fatalf("unexpected session id: %q", session.SessionID)
	}
	if session.AdvisorID != "general" {
		t.Fatalf("unexpected advisor id: %q", session.AdvisorID)
	}
	if len(session.Messages) != 0 {
		t.Fatalf("expected empty messages, got %d", len(session.Messages))
	}
	if !strings.HasPrefix(session.Title, "New Chat ") {
		t.Fatalf("unexpected title: %q", session.Title)
	}
}
