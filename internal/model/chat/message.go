package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a single turn in a conversation. Messages are immutable once
// appended to a session; the only exception is the in-flight draft, whose
// content is replaced wholesale on every streamed fragment until finalized.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message stamped with the creation instant. Content may
// be empty only for drafts.
func NewMessage(content string, isUser bool) Message {
	return Message{
		ID:        NewMessageID(),
		Content:   content,
		IsUser:    isUser,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageID returns an identifier unique within the process lifetime.
// The nanosecond clock keeps ids roughly ordered; the uuid fragment breaks
// ties between calls landing on the same tick.
func NewMessageID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
