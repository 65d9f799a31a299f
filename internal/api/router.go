package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/vaultpress/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Site structure.
	r.Get("/site", h.Site)
	r.Get("/tree", h.Tree)
	r.Get("/aliases", h.Aliases)
	r.Get("/routes", h.Routes)

	// Notes.
	r.Get("/notes/*", h.GetNote)
	r.Get("/backlinks/*", h.Backlinks)
	r.Get("/resolve", h.Resolve)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
