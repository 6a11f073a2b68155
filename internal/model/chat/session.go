package chat

import (
	"time"
)

const titleLimit = 30

// Session is one continuous conversation thread bound to an advisor.
type Session struct {
	SessionID string    `json:"sessionId"`
	AdvisorID string    `json:"advisorId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// History is the durable record holding every known session, most recently
// updated first.
type History struct {
	Sessions    []Session `json:"sessions"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewSession provisions an empty session for the given advisor.
func NewSession(id, advisorID string) Session {
	now := time.Now().UTC()
	return Session{
		SessionID: id,
		AdvisorID: advisorID,
		Title:     DefaultTitle(now),
		Messages:  make([]Message, 0, 16),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultTitle is the placeholder title for a session without messages.
func DefaultTitle(t time.Time) string {
	return "New Chat " + t.Format("1/2/2006")
}

// DeriveTitle produces the display title for a list of messages: the first
// user message truncated to 30 runes, or a dated default.
func DeriveTitle(messages []Message) string {
	if len(messages) > 0 && messages[0].IsUser {
		runes := []rune(messages[0].Content)
		if len(runes) > titleLimit {
			return string(runes[:titleLimit]) + "..."
		}
		return messages[0].Content
	}
	return DefaultTitle(time.Now())
}
