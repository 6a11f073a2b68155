package transport

import (
	"bufio"
	"encoding/json"
	"io"
	"log"
	"strings"
)

// doneSentinel terminates a server-push event stream.
const doneSentinel = "[DONE]"

// eventStream reads Server-Sent Events off the response body and yields the
// content delta of each one. The stream ends at the [DONE] sentinel; an
// error event or a broken connection surfaces as a terminal error.
type eventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	done    bool
}

type eventPayload struct {
	Content string `json:"content"`
	Error   string `json:"error"`
}

func newEventStream(body io.ReadCloser) *eventStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &eventStream{body: body, scanner: scanner}
}

func (s *eventStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		if data == doneSentinel {
			s.done = true
			return "", io.EOF
		}

		var payload eventPayload
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			// Malformed event; skip it rather than killing the stream.
			log.Printf("[transport] skipping malformed event: %v", err)
			continue
		}
		if payload.Error != "" {
			s.done = true
			return "", &TransportError{Message: payload.Error}
		}
		if payload.Content == "" {
			continue
		}
		return payload.Content, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", &TransportError{Message: "event stream interrupted", Err: err}
	}
	// Connection closed without the sentinel; treat as a clean end.
	return "", io.EOF
}

func (s *eventStream) Close() error {
	return s.body.Close()
}
