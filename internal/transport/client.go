// Package transport implements the wire contract to the remote chat
// endpoint: one request carrying {message, advisorId, thinkMode, stream},
// answered either as a single JSON payload, a chunked text stream, or a
// server-push event channel.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Mode selects how streamed responses are delivered.
type Mode int

const (
	// ModeChunked reads the response body as raw text fragments.
	ModeChunked Mode = iota
	// ModeEvents consumes a Server-Sent Events channel instead.
	ModeEvents
)

// Payload is the structured response of the chat endpoint.
type Payload struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// OnFragment receives each streamed fragment in arrival order together with
// the running accumulated total.
type OnFragment func(fragment, total string)

// Client talks to a single chat endpoint.
type Client struct {
	baseURL    string
	mode       Mode
	httpClient *http.Client
}

type chatRequest struct {
	Message   string `json:"message"`
	AdvisorID string `json:"advisorId"`
	ThinkMode bool   `json:"thinkMode"`
	Stream    bool   `json:"stream"`
}

// NewClient builds a client for the endpoint at baseURL. A zero timeout
// means no client-side limit; callers usually bound requests via context.
func NewClient(baseURL string, mode Mode, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		mode:       mode,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send submits a message for the given advisor. With a nil onFragment the
// call blocks for the complete payload. With a callback the response is
// consumed incrementally: the callback sees every fragment in order, and
// the returned payload holds the final accumulated content. A payload that
// is not well-formed JSON is returned as raw content, never as an error.
func (c *Client) Send(ctx context.Context, message, advisorID string, thinkMode bool, onFragment OnFragment) (Payload, error) {
	if onFragment == nil {
		return c.sendOnce(ctx, message, advisorID, thinkMode)
	}

	stream, err := c.openStream(ctx, message, advisorID, thinkMode)
	if err != nil {
		return Payload{}, err
	}
	defer stream.Close()

	return drain(stream, onFragment)
}

// sendOnce performs a plain request/response exchange.
func (c *Client) sendOnce(ctx context.Context, message, advisorID string, thinkMode bool) (Payload, error) {
	resp, err := c.post(ctx, chatRequest{
		Message:   message,
		AdvisorID: advisorID,
		ThinkMode: thinkMode,
	})
	if err != nil {
		return Payload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, errorFromResponse(resp)
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Payload{}, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response payload",
			Err:        err,
		}
	}
	return payload, nil
}

// openStream starts a streamed exchange in the configured delivery mode.
func (c *Client) openStream(ctx context.Context, message, advisorID string, thinkMode bool) (FragmentStream, error) {
	if c.mode == ModeEvents {
		return c.openEventStream(ctx, message, advisorID, thinkMode)
	}

	resp, err := c.post(ctx, chatRequest{
		Message:   message,
		AdvisorID: advisorID,
		ThinkMode: thinkMode,
		Stream:    true,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return newChunkStream(resp.Body), nil
}

func (c *Client) openEventStream(ctx context.Context, message, advisorID string, thinkMode bool) (FragmentStream, error) {
	query := url.Values{}
	query.Set("message", message)
	query.Set("advisorId", advisorID)
	query.Set("thinkMode", strconv.FormatBool(thinkMode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat?"+query.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Message: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "request failed", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return newEventStream(resp.Body), nil
}

func (c *Client) post(ctx context.Context, payload chatRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Message: "invalid request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: "request failed", Err: err}
	}
	return resp, nil
}

// drain pulls the stream to completion, invoking onFragment for each
// fragment in arrival order with the running total. The accumulated text is
// interpreted as a structured payload when possible, otherwise returned
// verbatim as content.
func drain(stream FragmentStream, onFragment OnFragment) (Payload, error) {
	var total string
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Payload{}, err
		}
		total += fragment
		onFragment(fragment, total)
	}

	var payload Payload
	if err := json.Unmarshal([]byte(total), &payload); err == nil && payload.Content != "" {
		return payload, nil
	}
	return Payload{Content: total}, nil
}

func errorFromResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var payload Payload
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &TransportError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &TransportError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}
}
