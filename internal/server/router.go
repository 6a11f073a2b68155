package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dotku/chaterp/internal/middleware"
	"github.com/dotku/chaterp/internal/model/advisor"
)

// NewRouter wires the API routes with the standard middleware stack.
func NewRouter(advisors advisor.Store, responder Responder) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	handler := New(advisors, responder)
	r.Route("/api", func(api chi.Router) {
		handler.RegisterRoutes(api)
	})

	return r
}
