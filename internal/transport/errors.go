package transport

import "fmt"

// TransportError reports an HTTP or stream failure talking to the chat
// endpoint, carrying the server-supplied error text when one was available.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode > 0:
		return fmt.Sprintf("chat endpoint: %s (status %d)", e.Message, e.StatusCode)
	case e.Message != "":
		return "chat endpoint: " + e.Message
	case e.StatusCode > 0:
		return fmt.Sprintf("chat endpoint: request failed with status %d", e.StatusCode)
	default:
		return "chat endpoint: request failed"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }
