// Package engine owns the state of the active chat session and orchestrates
// the transport, the message model and the session store. All state lives on
// the Engine so the session logic is testable without any rendering
// environment.
package engine

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dotku/chaterp/internal/model/chat"
	"github.com/dotku/chaterp/internal/storage"
	"github.com/dotku/chaterp/internal/transport"
)

// ApologyMessage is the only thing the user ever sees when a request fails;
// raw transport errors stay out of the conversation.
const ApologyMessage = "Sorry, there was an error processing your request. Please try again."

// Transport abstracts the chat endpoint client so tests can script
// responses.
type Transport interface {
	Send(ctx context.Context, message, advisorID string, thinkMode bool, onFragment transport.OnFragment) (transport.Payload, error)
}

// Engine manages one active session at a time: its messages, the in-flight
// draft, the think flags, and the session index. At most one send may be in
// flight; a send while already sending is rejected, not queued.
type Engine struct {
	mu             sync.Mutex
	advisorID      string
	store          *storage.SessionStore
	client         Transport
	requestTimeout time.Duration

	sessionID     string
	messages      []chat.Message
	history       []chat.Session
	sending       bool
	draft         *chat.Message
	thinkMode     bool
	expandedThink map[string]bool

	onDraft func(chat.Message)
}

// New restores the engine from stored history: the most recently updated
// session becomes active, or a fresh one is started when no history exists.
func New(advisorID string, store *storage.SessionStore, client Transport, requestTimeout time.Duration) *Engine {
	e := &Engine{
		advisorID:      advisorID,
		store:          store,
		client:         client,
		requestTimeout: requestTimeout,
		expandedThink:  make(map[string]bool),
	}

	history := store.LoadAll()
	e.history = history.Sessions
	if len(e.history) > 0 {
		recent := e.history[0]
		e.sessionID = recent.SessionID
		e.messages = append([]chat.Message(nil), recent.Messages...)
	} else {
		e.startNewSessionLocked()
	}
	return e
}

// SetOnDraft registers an observer called with the draft message after each
// applied fragment, for incremental rendering.
func (e *Engine) SetOnDraft(fn func(chat.Message)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDraft = fn
}

// SendMessage appends the user message, streams the assistant response into
// the draft and finalizes it into history. Empty input and sends while one
// is already in flight are no-ops. Transport failures degrade to a fixed
// apology message; they are never re-raised.
func (e *Engine) SendMessage(ctx context.Context, text string) {
	e.mu.Lock()
	if strings.TrimSpace(text) == "" || e.sending {
		e.mu.Unlock()
		return
	}
	e.sending = true

	// Optimistic append: the user sees their message before any network
	// activity happens.
	e.messages = append(e.messages, chat.NewMessage(text, true))
	e.persistLocked()
	advisorID := e.advisorID
	thinkMode := e.thinkMode
	e.mu.Unlock()

	if e.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.requestTimeout)
		defer cancel()
	}

	var accumulated string
	payload, err := e.client.Send(ctx, text, advisorID, thinkMode, func(fragment, total string) {
		e.applyFragment(total)
		accumulated = total
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = nil
	e.sending = false

	if err != nil {
		log.Printf("[engine] send failed for session=%s: %v", e.sessionID, err)
		e.messages = append(e.messages, chat.NewMessage(ApologyMessage, false))
		e.persistLocked()
		return
	}

	// The draft's accumulated text becomes the permanent message; a
	// non-streamed exchange falls back to the payload content.
	if accumulated == "" {
		accumulated = payload.Content
	}
	e.messages = append(e.messages, chat.NewMessage(accumulated, false))
	e.persistLocked()
}

// applyFragment replaces the draft content with the latest running total,
// creating the draft on the first fragment.
func (e *Engine) applyFragment(total string) {
	e.mu.Lock()
	if e.draft == nil {
		draft := chat.NewMessage(total, false)
		e.draft = &draft
	} else {
		e.draft.Content = total
	}
	observer := e.onDraft
	snapshot := *e.draft
	e.mu.Unlock()

	if observer != nil {
		observer(snapshot)
	}
}

// StartNewSession makes a fresh empty session active and prepends it to the
// index. Other sessions are untouched; nothing is persisted until the new
// session has messages.
func (e *Engine) StartNewSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startNewSessionLocked()
}

func (e *Engine) startNewSessionLocked() {
	session := chat.NewSession(storage.GenerateSessionID(), e.advisorID)
	e.sessionID = session.SessionID
	e.messages = nil
	e.history = append([]chat.Session{session}, e.history...)
}

// ClearConversation empties the active session in place, keeping its id,
// and persists the cleared state.
func (e *Engine) ClearConversation() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sessionID == "" {
		return
	}
	e.messages = nil
	e.persistLocked()
}

// LoadSession replaces the active state with the stored session. Unknown
// ids leave the state unchanged.
func (e *Engine) LoadSession(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadSessionLocked(id)
}

func (e *Engine) loadSessionLocked(id string) {
	for _, session := range e.history {
		if session.SessionID == id {
			e.sessionID = session.SessionID
			e.messages = append([]chat.Message(nil), session.Messages...)
			return
		}
	}
}

// DeleteSession removes the session from the index and from storage. When
// the active session is deleted, the next most recent one takes over, or a
// new session starts if none remain.
func (e *Engine) DeleteSession(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = e.store.DeleteSession(id, e.history)
	if id != e.sessionID {
		return
	}
	if len(e.history) > 0 {
		e.loadSessionLocked(e.history[0].SessionID)
	} else {
		e.startNewSessionLocked()
	}
}

// ToggleThinkExpanded flips whether the reasoning segment of a message is
// shown. Independent of think mode, which governs whether reasoning is
// requested at all.
func (e *Engine) ToggleThinkExpanded(messageID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expandedThink[messageID] = !e.expandedThink[messageID]
}

// ThinkExpanded reports the expanded state for a message.
func (e *Engine) ThinkExpanded(messageID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expandedThink[messageID]
}

// SetThinkMode requests (or stops requesting) reasoning segments from the
// backend on subsequent sends.
func (e *Engine) SetThinkMode(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thinkMode = enabled
}

// ThinkMode reports whether reasoning segments are requested.
func (e *Engine) ThinkMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thinkMode
}

// Sending reports whether a send is in flight.
func (e *Engine) Sending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sending
}

// SessionID returns the active session id.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// AdvisorID returns the advisor the engine is bound to.
func (e *Engine) AdvisorID() string {
	return e.advisorID
}

// Messages returns a copy of the active session's messages.
func (e *Engine) Messages() []chat.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]chat.Message(nil), e.messages...)
}

// Draft returns the in-progress assistant message, if any.
func (e *Engine) Draft() (chat.Message, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return chat.Message{}, false
	}
	return *e.draft, true
}

// History returns a copy of the session index, most recent first.
func (e *Engine) History() []chat.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]chat.Session(nil), e.history...)
}

// persistLocked writes the active session through the store. Must be called
// with the mutex held. Each write serializes the complete current state, so
// a later write superseding an earlier one is harmless.
func (e *Engine) persistLocked() {
	createdAt := time.Now().UTC()
	for _, session := range e.history {
		if session.SessionID == e.sessionID {
			createdAt = session.CreatedAt
			break
		}
	}

	session := chat.Session{
		SessionID: e.sessionID,
		AdvisorID: e.advisorID,
		Title:     chat.DeriveTitle(e.messages),
		Messages:  append([]chat.Message(nil), e.messages...),
		CreatedAt: createdAt,
		UpdatedAt: time.Now().UTC(),
	}
	e.history = e.store.SaveSession(session, e.history)
}
