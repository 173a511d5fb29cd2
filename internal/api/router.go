package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/fmstat/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/stats", h.Stats)

	// Attributes.
	r.Get("/attributes", h.Attributes)
	r.Route("/attributes/{name}", func(r chi.Router) {
		r.Get("/values", h.Values)
		r.Get("/groups", h.Groups)
		r.Get("/notes", h.Notes)
	})

	// Hubs.
	r.Get("/hubs", h.Hubs)
	r.Get("/hubs/count", h.ChildCount)

	// Notes.
	r.Get("/notes/*", h.GetNote)

	return r
}
