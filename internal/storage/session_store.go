package storage

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dotku/chaterp/internal/model/chat"
)

// historyKey is the single record holding all sessions, mirroring the
// original chatERP-history local storage entry.
const historyKey = "chaterp-history"

// SessionStore persists the session history through a KV backend. History
// persistence is best effort: reads fail soft to an empty history and write
// failures are logged, never raised, so in-memory state stays authoritative
// for the current run.
type SessionStore struct {
	kv KV
}

// NewSessionStore wraps the given backend.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// LoadAll returns every stored session, most recently updated first. A
// missing or corrupt record yields an empty history; startup must never
// block on bad history.
func (s *SessionStore) LoadAll() chat.History {
	data, err := s.kv.Get(historyKey)
	if errors.Is(err, ErrNotFound) {
		return chat.History{Sessions: []chat.Session{}}
	}
	if err != nil {
		log.Printf("[storage] failed to load chat history: %v", err)
		return chat.History{Sessions: []chat.Session{}}
	}

	var history chat.History
	if err := json.Unmarshal(data, &history); err != nil {
		log.Printf("[storage] corrupt chat history, starting fresh: %v", err)
		return chat.History{Sessions: []chat.Session{}}
	}
	if history.Sessions == nil {
		history.Sessions = []chat.Session{}
	}
	return history
}

// SaveSession upserts the session by id: any existing entry is removed and
// the new one prepended, then the whole collection is persisted. The stored
// collection never holds two entries with the same session id.
func (s *SessionStore) SaveSession(session chat.Session, existing []chat.Session) []chat.Session {
	updated := make([]chat.Session, 0, len(existing)+1)
	updated = append(updated, session)
	for _, item := range existing {
		if item.SessionID != session.SessionID {
			updated = append(updated, item)
		}
	}
	s.persist(updated)
	return updated
}

// DeleteSession removes the matching entry and persists the remainder.
// Deleting an unknown id is a no-op, not an error.
func (s *SessionStore) DeleteSession(sessionID string, existing []chat.Session) []chat.Session {
	updated := make([]chat.Session, 0, len(existing))
	for _, item := range existing {
		if item.SessionID != sessionID {
			updated = append(updated, item)
		}
	}
	s.persist(updated)
	return updated
}

// Close releases the underlying backend.
func (s *SessionStore) Close() error {
	return s.kv.Close()
}

func (s *SessionStore) persist(sessions []chat.Session) {
	history := chat.History{
		Sessions:    sessions,
		LastUpdated: time.Now().UTC(),
	}
	data, err := json.Marshal(history)
	if err != nil {
		log.Printf("[storage] failed to encode chat history: %v", err)
		return
	}
	if err := s.kv.Set(historyKey, data); err != nil {
		log.Printf("[storage] failed to save chat history: %v", err)
	}
}

// GenerateSessionID returns an opaque token that will not collide across
// rapid successive calls: a base36 millisecond clock plus a uuid fragment.
func GenerateSessionID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + uuid.NewString()[:8]
}
