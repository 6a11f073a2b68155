package server

import (
	"context"
	"strings"
	"time"

	"github.com/dotku/chaterp/internal/model/advisor"
)

// Responder produces the assistant text for one exchange, emitting it in
// order as incremental deltas.
type Responder interface {
	Respond(ctx context.Context, message, advisorID string, thinkMode bool, emit func(delta string) error) error
}

// SimulatedResponder serves canned advisor replies without any model
// credentials, chunked with small delays so streaming paths are exercised
// end to end. The original front-end shipped the same responder for
// development.
type SimulatedResponder struct {
	advisors advisor.Store
	// ChunkSize and Delay govern the simulated stream; zero Delay makes
	// tests fast.
	ChunkSize int
	Delay     time.Duration
}

// NewSimulatedResponder builds a responder over the advisor catalog.
func NewSimulatedResponder(advisors advisor.Store) *SimulatedResponder {
	return &SimulatedResponder{
		advisors:  advisors,
		ChunkSize: 10,
		Delay:     50 * time.Millisecond,
	}
}

// Respond emits the simulated reply for the message.
func (s *SimulatedResponder) Respond(ctx context.Context, message, advisorID string, thinkMode bool, emit func(delta string) error) error {
	response := s.responseFor(message, advisorID, thinkMode)

	for _, chunk := range chunkString(response, s.ChunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
	}
	return nil
}

func (s *SimulatedResponder) responseFor(message, advisorID string, thinkMode bool) string {
	name := "ChatERP"
	if adv, ok := s.advisors.FindByID(advisorID); ok {
		name = adv.Name
	}
	lower := strings.ToLower(message)

	if thinkMode && (strings.Contains(lower, "test") || strings.Contains(lower, "thinking")) {
		return "<think>I need to analyze what the user is asking about testing or thinking functionality.\n\n" +
			"The user seems to be testing the thinking mode feature of the application.\n\n" +
			"I should provide information about how thinking mode works and demonstrate that the feature is functioning correctly.</think>\n\n" +
			"I see you're testing the thinking mode feature! This is working correctly if you can see my thought process above this message. " +
			"The thinking mode allows you to see how I analyze and process your questions before providing a final answer."
	}

	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		return "Hello! I'm " + name + ". How can I help you today?"
	case strings.Contains(lower, "help"):
		return "I can help you with various ERP-related tasks. What specific area would you like assistance with?"
	case advisorID == "document-analyzer" && strings.Contains(lower, "analyze"):
		return "I'll analyze that document for you. Please upload it or provide the text content."
	case advisorID == "personalize":
		return "I'm your personalized assistant. I'll remember your preferences and adapt to your needs over time."
	default:
		return "Thank you for your message. I'm " + name + ", and I'm here to assist with your business needs. " +
			"Could you provide more details about what you're looking for?"
	}
}

func chunkString(s string, size int) []string {
	if size <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
