package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/checksum"
	"github.com/starford/vaultpress/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path or route from the URL wildcard.
// Supports encoded slashes and spaces (e.g. guides%2FMy%20Note.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func internalError(w http.ResponseWriter, op string, err error, attrs ...any) {
	slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// Site handles GET /api/site.
//
//	@Summary		Get tree, alias map and route map in one snapshot
//	@Tags			site
//	@Produce		json
//	@Success		200	{object}	SiteResponse
//	@Security		BearerAuth
//	@Router			/site [get]
func (h *Handler) Site(w http.ResponseWriter, r *http.Request) {
	site, err := h.svc.Site(r.Context())
	if err != nil {
		internalError(w, "site", err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the navigation tree of published notes
//	@Tags			site
//	@Produce		json
//	@Success		200	{array}	models.TreeNode
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Tree(r.Context())
	if err != nil {
		internalError(w, "tree", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// Aliases handles GET /api/aliases.
//
//	@Summary		Get the alias map
//	@Tags			site
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/aliases [get]
func (h *Handler) Aliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.svc.Aliases(r.Context())
	if err != nil {
		internalError(w, "aliases", err)
		return
	}
	writeJSON(w, http.StatusOK, aliases)
}

// Routes handles GET /api/routes.
//
//	@Summary		Get the route map
//	@Tags			site
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/routes [get]
func (h *Handler) Routes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.svc.Routes(r.Context())
	if err != nil {
		internalError(w, "routes", err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a published note by path or route
//	@Tags			notes
//	@Produce		json
//	@Param			path			path		string	true	"Note path or route"
//	@Param			If-None-Match	header		string	false	"Checksum from a previous response"
//	@Success		200				{object}	NoteDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			internalError(w, "get note", err, slog.String("path", path))
		}
		return
	}

	w.Header().Set("ETag", checksum.ETag(note.Checksum))
	if match := r.Header.Get("If-None-Match"); match != "" && checksum.MatchesNoneMatch(match, note.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Backlinks handles GET /api/backlinks/*.
//
//	@Summary		List published notes linking to a note
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path or route"
//	@Success		200		{object}	BacklinksResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/backlinks/{path} [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	links, err := h.svc.Backlinks(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			internalError(w, "backlinks", err, slog.String("path", path))
		}
		return
	}
	writeJSON(w, http.StatusOK, BacklinksResponse{Path: path, Backlinks: links})
}

// Resolve handles GET /api/resolve.
//
//	@Summary		Resolve wikilink text to a published note
//	@Tags			notes
//	@Produce		json
//	@Param			target	query		string	true	"Link target"
//	@Success		200		{object}	LinkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if strings.TrimSpace(target) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'target' is required"))
		return
	}
	link, err := h.svc.Resolve(r.Context(), target)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			internalError(w, "resolve", err, slog.String("target", target))
		}
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Search handles GET /api/search.
//
//	@Summary		Search published notes
//	@Description	Plain queries match titles and bodies; "tag:x" filters by tag.
//	@Tags			search
//	@Produce		json
//	@Param			q	query	string	false	"Search query"
//	@Success		200	{array}	SearchResult
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := h.svc.Search(r.Context(), q)
	if err != nil {
		internalError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, results)
}
