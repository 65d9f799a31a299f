package api

import (
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/noteservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// SiteResponse is the start-up payload (aliased from the domain layer).
type SiteResponse = noteservice.Site

// LinkResponse is a resolved wikilink (aliased from the domain layer).
type LinkResponse = noteservice.Link

// SearchResult is a single search hit. Excerpt is HTML with <mark> around
// matched terms; it is empty for tag and title-only matches.
type SearchResult = models.SearchResult

// BacklinksResponse lists the notes linking to Path.
type BacklinksResponse struct {
	Path      string   `json:"path" example:"guides/intro.md" validate:"required"`
	Backlinks []string `json:"backlinks" example:"index.md" validate:"required"`
}
