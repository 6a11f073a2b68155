package storage

import (
	"errors"
	"testing"

	"github.com/dotku/chaterp/internal/model/chat"
)

func TestSaveSessionThenLoadAllIsIdempotent(t *testing.T) {
	store := NewSessionStore(NewMemoryKV())
	session := chat.NewSession("s1", "general")

	sessions := store.SaveSession(session, nil)
	sessions = store.SaveSession(session, sessions)

	loaded := store.LoadAll()
	if len(loaded.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(loaded.Sessions))
	}
	if loaded.Sessions[0].SessionID != "s1" {
		t.Fatalf("unexpected session id: %q", loaded.Sessions[0].SessionID)
	}
}

func TestSaveSessionMovesUpdatedEntryToFront(t *testing.T) {
	store := NewSessionStore(NewMemoryKV())

	first := chat.NewSession("s1", "general")
	second := chat.NewSession("s2", "general")
	sessions := store.SaveSession(first, nil)
	sessions = store.SaveSession(second, sessions)

	if sessions[0].SessionID != "s2" {
		t.Fatalf("expected s2 first, got %q", sessions[0].SessionID)
	}

	sessions = store.SaveSession(first, sessions)
	if sessions[0].SessionID != "s1" {
		t.Fatalf("expected s1 moved to front, got %q", sessions[0].SessionID)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestDeleteSessionUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	store := NewSessionStore(NewMemoryKV())
	sessions := store.SaveSession(chat.NewSession("s1", "general"), nil)

	updated := store.DeleteSession("missing", sessions)
	if len(updated) != 1 || updated[0].SessionID != "s1" {
		t.Fatalf("collection changed: %+v", updated)
	}
}

func TestDeleteSessionRemovesEntry(t *testing.T) {
	store := NewSessionStore(NewMemoryKV())
	sessions := store.SaveSession(chat.NewSession("s1", "general"), nil)
	sessions = store.SaveSession(chat.NewSession("s2", "general"), sessions)

	sessions = store.DeleteSession("s1", sessions)
	if len(sessions) != 1 || sessions[0].SessionID != "s2" {
		t.Fatalf("unexpected collection: %+v", sessions)
	}

	loaded := store.LoadAll()
	if len(loaded.Sessions) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(loaded.Sessions))
	}
}

func TestLoadAllMissingHistoryYieldsEmpty(t *testing.T) {
	store := NewSessionStore(NewMemoryKV())

	loaded := store.LoadAll()
	if loaded.Sessions == nil {
		t.Fatal("expected non-nil sessions")
	}
	if len(loaded.Sessions) != 0 {
		t.Fatalf("expected empty history, got %d sessions", len(loaded.Sessions))
	}
}

func TestLoadAllCorruptHistoryYieldsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set(historyKey, []byte("{not json")); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	store := NewSessionStore(kv)

	loaded := store.LoadAll()
	if len(loaded.Sessions) != 0 {
		t.Fatalf("expected empty history, got %d sessions", len(loaded.Sessions))
	}
}

// failingKV rejects every write, standing in for a full disk.
type failingKV struct{ *MemoryKV }

func (f *failingKV) Set(key string, value []byte) error {
	return errors.New("quota exceeded")
}

func TestSaveSessionSwallowsStorageFailure(t *testing.T) {
	store := NewSessionStore(&failingKV{MemoryKV: NewMemoryKV()})
	session := chat.NewSession("s1", "general")

	sessions := store.SaveSession(session, nil)
	if len(sessions) != 1 {
		t.Fatalf("in-memory state must stay authoritative, got %d sessions", len(sessions))
	}
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id after %d calls: %s", i, id)
		}
		seen[id] = true
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV err: %v", err)
	}

	if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Set("history", []byte(`{"sessions":[]}`)); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	data, err := kv.Get("history")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if string(data) != `{"sessions":[]}` {
		t.Fatalf("unexpected value: %s", data)
	}

	if err := kv.Delete("history"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := kv.Get("history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := kv.Delete("history"); err != nil {
		t.Fatalf("deleting absent key should be a no-op: %v", err)
	}
}

func TestBadgerKVRoundTrip(t *testing.T) {
	kv, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("OpenBadgerInMemory err: %v", err)
	}
	defer kv.Close()

	if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Set("history", []byte("payload")); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	data, err := kv.Get("history")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected value: %s", data)
	}

	if err := kv.Delete("history"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := kv.Get("history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
