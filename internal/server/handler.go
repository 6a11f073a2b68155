// Package server implements the reference chat endpoint honoring the wire
// contract the client engine expects: a JSON one-shot response, a chunked
// text stream, or a Server-Sent Events channel terminated by [DONE]. It
// keeps no server-side session state.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotku/chaterp/internal/model/advisor"
	"github.com/dotku/chaterp/pkg/utils"
)

// Handler serves the advisor catalog and the chat endpoint.
type Handler struct {
	advisors  advisor.Store
	responder Responder
}

// New creates the handler over the advisor catalog and a responder.
func New(advisors advisor.Store, responder Responder) *Handler {
	return &Handler{advisors: advisors, responder: responder}
}

// RegisterRoutes mounts the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/advisors", h.handleListAdvisors)
	r.Post("/chat", h.handleChat)
	r.Get("/chat", h.handleChatEvents)
}

type chatRequest struct {
	Message   string `json:"message"`
	AdvisorID string `json:"advisorId"`
	ThinkMode bool   `json:"thinkMode"`
	Stream    bool   `json:"stream"`
}

// handleListAdvisors returns the advisor catalog.
func (h *Handler) handleListAdvisors(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.advisors.List())
}

// handleChat answers a posted exchange either as one JSON payload or as a
// chunked stream of raw text fragments.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if payload.AdvisorID == "" {
		payload.AdvisorID = "general"
	}
	if _, ok := h.advisors.FindByID(payload.AdvisorID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "advisor not found")
		return
	}

	if payload.Stream {
		h.streamChat(w, r, payload)
		return
	}

	var full strings.Builder
	err := h.responder.Respond(r.Context(), payload.Message, payload.AdvisorID, payload.ThinkMode, func(delta string) error {
		full.WriteString(delta)
		return nil
	})
	if err != nil {
		log.Printf("[server] chat response failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"content": full.String()})
}

// streamChat writes raw text fragments as they are produced. A failure
// after the first byte can only be logged; the client treats whatever
// arrived as the response.
func (h *Handler) streamChat(w http.ResponseWriter, r *http.Request, payload chatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	wrote := false
	err := h.responder.Respond(r.Context(), payload.Message, payload.AdvisorID, payload.ThinkMode, func(delta string) error {
		if _, err := w.Write([]byte(delta)); err != nil {
			return err
		}
		wrote = true
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.Printf("[server] chat stream failed: %v", err)
		if !wrote {
			utils.RespondError(w, http.StatusInternalServerError, "failed to generate response")
		}
	}
}

// handleChatEvents serves the server-push delivery mode: one SSE event per
// content delta, an error event on failure, and the [DONE] sentinel at the
// end of the stream.
func (h *Handler) handleChatEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	message := r.URL.Query().Get("message")
	if strings.TrimSpace(message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	advisorID := r.URL.Query().Get("advisorId")
	if advisorID == "" {
		advisorID = "general"
	}
	if _, ok := h.advisors.FindByID(advisorID); !ok {
		utils.RespondError(w, http.StatusBadRequest, "advisor not found")
		return
	}
	thinkMode, _ := strconv.ParseBool(r.URL.Query().Get("thinkMode"))

	utils.SetupSSEHeaders(w)

	err := h.responder.Respond(r.Context(), message, advisorID, thinkMode, func(delta string) error {
		utils.SendSSEChunk(w, flusher, map[string]string{"content": delta})
		return nil
	})
	if err != nil {
		log.Printf("[server] event stream failed: %v", err)
		utils.SendSSEChunk(w, flusher, map[string]string{"error": "failed to generate response"})
		return
	}

	utils.SendSSESentinel(w, flusher, "[DONE]")
}
