package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dotku/chaterp/internal/model/advisor"
)

func newTestServer(t *testing.T, responder Responder) *httptest.Server {
	t.Helper()
	handler := New(advisor.NewMemoryStore(advisor.Seed()), responder)
	r := chi.NewRouter()
	r.Route("/api", handler.RegisterRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func fastResponder() *SimulatedResponder {
	responder := NewSimulatedResponder(advisor.NewMemoryStore(advisor.Seed()))
	responder.Delay = 0
	return responder
}

func TestListAdvisors(t *testing.T) {
	srv := newTestServer(t, fastResponder())

	resp, err := http.Get(srv.URL + "/api/advisors")
	if err != nil {
		t.Fatalf("GET advisors: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var advisors []advisor.Advisor
	if err := json.NewDecoder(resp.Body).Decode(&advisors); err != nil {
		t.Fatalf("decode advisors: %v", err)
	}
	if len(advisors) != len(advisor.Seed()) {
		t.Fatalf("expected %d advisors, got %d", len(advisor.Seed()), len(advisors))
	}
	if advisors[0].ID != "general" {
		t.Fatalf("unexpected first advisor: %+v", advisors[0])
	}
}

func TestChatReturnsJSONPayload(t *testing.T) {
	srv := newTestServer(t, fastResponder())

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("POST chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !strings.Contains(payload["content"], "Hello!") {
		t.Fatalf("unexpected content: %q", payload["content"])
	}
}

func TestChatStreamedBodyMatchesFullResponse(t *testing.T) {
	responder := fastResponder()
	srv := newTestServer(t, responder)

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"message":"hello","stream":true}`))
	if err != nil {
		t.Fatalf("POST chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	want := responder.responseFor("hello", "general", false)
	if string(body) != want {
		t.Fatalf("streamed body = %q, want %q", body, want)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv := newTestServer(t, fastResponder())

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"message":"   "}`))
	if err != nil {
		t.Fatalf("POST chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("expected error payload")
	}
}

func TestChatRejectsUnknownAdvisor(t *testing.T) {
	srv := newTestServer(t, fastResponder())

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"message":"hello","advisorId":"nope"}`))
	if err != nil {
		t.Fatalf("POST chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestChatResponderFailureIsServerError(t *testing.T) {
	srv := newTestServer(t, failingResponder{})

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("POST chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestChatEvents(t *testing.T) {
	responder := fastResponder()
	srv := newTestServer(t, responder)

	resp, err := http.Get(srv.URL + "/api/chat?message=hello&advisorId=general")
	if err != nil {
		t.Fatalf("GET chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type: %q", ct)
	}

	events := readSSEData(t, resp.Body)
	if len(events) < 2 {
		t.Fatalf("expected content events plus sentinel, got %v", events)
	}
	if events[len(events)-1] != "[DONE]" {
		t.Fatalf("stream should end with the sentinel, got %q", events[len(events)-1])
	}

	var full strings.Builder
	for _, data := range events[:len(events)-1] {
		var payload map[string]string
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			t.Fatalf("malformed event %q: %v", data, err)
		}
		full.WriteString(payload["content"])
	}
	want := responder.responseFor("hello", "general", false)
	if full.String() != want {
		t.Fatalf("assembled events = %q, want %q", full.String(), want)
	}
}

func TestChatEventsRequireMessage(t *testing.T) {
	srv := newTestServer(t, fastResponder())

	resp, err := http.Get(srv.URL + "/api/chat")
	if err != nil {
		t.Fatalf("GET chat: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestChatEventsFailureEmitsErrorEvent(t *testing.T) {
	srv := newTestServer(t, failingResponder{})

	resp, err := http.Get(srv.URL + "/api/chat?message=hello")
	if err != nil {
		t.Fatalf("GET chat: %v", err)
	}
	defer resp.Body.Close()

	events := readSSEData(t, resp.Body)
	if len(events) == 0 {
		t.Fatal("expected an error event")
	}
	last := events[len(events)-1]
	if last == "[DONE]" {
		t.Fatal("failed stream must not end with the done sentinel")
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("malformed event %q: %v", last, err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error event, got %q", last)
	}
}

func TestSimulatedThinkModeResponseCarriesReasoning(t *testing.T) {
	responder := fastResponder()

	var full strings.Builder
	err := responder.Respond(context.Background(), "testing thinking mode", "general", true, func(delta string) error {
		full.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Respond err: %v", err)
	}
	if !strings.Contains(full.String(), "</think>") {
		t.Fatalf("think mode response should carry a reasoning segment: %q", full.String())
	}
}

type failingResponder struct{}

func (failingResponder) Respond(ctx context.Context, message, advisorID string, thinkMode bool, emit func(delta string) error) error {
	return errors.New("model unavailable")
}

func readSSEData(t *testing.T, r io.Reader) []string {
	t.Helper()
	var events []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			events = append(events, strings.TrimPrefix(line, "data: "))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	return events
}
