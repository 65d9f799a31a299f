// Package noteservice serves the published view of a vault: every call takes
// a fresh snapshot from storage and runs it through the vault pipeline.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/starford/vaultpress/internal/apperr"
	"github.com/starford/vaultpress/internal/checksum"
	"github.com/starford/vaultpress/internal/markup"
	"github.com/starford/vaultpress/internal/metrics"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/parser"
	"github.com/starford/vaultpress/internal/search"
	"github.com/starford/vaultpress/internal/storage"
	"github.com/starford/vaultpress/internal/urlpath"
	"github.com/starford/vaultpress/internal/vault"
)

// NoteDetail is the full representation of a published note.
type NoteDetail struct {
	Path        string          `json:"path"`
	Route       string          `json:"route"`
	Title       string          `json:"title"`
	Meta        models.NoteMeta `json:"meta"`
	Body        string          `json:"body"`
	Checksum    string          `json:"checksum"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Backlinks   []string        `json:"backlinks"`
}

// Site bundles the navigation data a client needs on start-up.
type Site struct {
	Tree     []*models.TreeNode `json:"tree"`
	AliasMap models.AliasMap    `json:"aliasMap"`
	URLMap   models.URLMap      `json:"urlMap"`
}

// Link is a wikilink target resolved to a published note.
type Link struct {
	Target string `json:"target"`
	Path   string `json:"path"`
	Route  string `json:"route"`
}

// Service coordinates storage and the vault pipeline.
type Service struct {
	store   storage.Provider
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates a new note service. m may be nil.
func NewService(store storage.Provider, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, metrics: m, logger: logger}
}

// Load snapshots the vault and processes it.
func (s *Service) Load(ctx context.Context) (*vault.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	raw, err := s.store.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("noteservice: load: %w", err)
	}
	res := vault.Process(raw)
	s.metrics.ObserveProcess(time.Since(start), res.Files.Len())
	s.logger.Debug("vault processed",
		slog.Int("files", len(raw)),
		slog.Int("published", res.Files.Len()),
		slog.Duration("took", time.Since(start)),
	)
	return res, nil
}

// Site returns tree, alias map and route map of one snapshot.
func (s *Service) Site(ctx context.Context) (*Site, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Site{Tree: res.Tree, AliasMap: res.AliasMap, URLMap: res.URLMap}, nil
}

// Tree returns the navigation tree.
func (s *Service) Tree(ctx context.Context) ([]*models.TreeNode, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Tree, nil
}

// Aliases returns the alias map.
func (s *Service) Aliases(ctx context.Context) (models.AliasMap, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.AliasMap, nil
}

// Routes returns the route map.
func (s *Service) Routes(ctx context.Context) (models.URLMap, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.URLMap, nil
}

// GetNote returns a published note addressed by vault-relative path or by
// route. Its body has comments stripped and wikilinks rewritten to HTML.
func (s *Service) GetNote(ctx context.Context, pathOrRoute string) (*NoteDetail, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := res.Lookup(pathOrRoute)
	if !ok {
		return nil, fmt.Errorf("noteservice: note %q: %w", pathOrRoute, apperr.ErrNotFound)
	}

	data, err := s.store.Read(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("noteservice: note %q: %w", f.Path, apperr.ErrNotFound)
		}
		return nil, err
	}
	mt, err := s.store.ModTime(f.Path)
	if err != nil {
		return nil, err
	}

	body := markup.PreprocessWikiLinks(parser.StripComments(f.Body), res.AliasMap)
	bl := backlinks(res, f.Path)
	return &NoteDetail{
		Path:        f.Path,
		Route:       urlpath.ToURLPath(f.Path),
		Title:       vault.Stem(f.Path),
		Meta:        f.Meta,
		Body:        body,
		Checksum:    renderedSum(data, body, bl),
		LastUpdated: mt,
		Backlinks:   bl,
	}, nil
}

// renderedSum fingerprints a note as served. Rendered links and backlinks
// depend on the rest of the vault, so they are hashed with the file content.
func renderedSum(raw []byte, body string, backlinks []string) string {
	return checksum.SumParts(string(raw), body, strings.Join(backlinks, "\n"))
}

// Search runs query against the published notes.
func (s *Service) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := search.Files(res.Files, query)
	s.metrics.ObserveSearch(string(search.Classify(query)), len(results))
	return results, nil
}

// Backlinks returns the paths of published notes linking to the note
// addressed by pathOrRoute.
func (s *Service) Backlinks(ctx context.Context, pathOrRoute string) ([]string, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := res.Lookup(pathOrRoute)
	if !ok {
		return nil, fmt.Errorf("noteservice: note %q: %w", pathOrRoute, apperr.ErrNotFound)
	}
	return backlinks(res, f.Path), nil
}

// Resolve resolves wikilink text the way note bodies do.
func (s *Service) Resolve(ctx context.Context, target string) (*Link, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	target = strings.TrimSpace(target)
	rel, ok := markup.Resolve(res.AliasMap, target)
	if target == "" || !ok {
		return nil, fmt.Errorf("noteservice: link %q: %w", target, apperr.ErrNotFound)
	}
	return &Link{Target: target, Path: rel, Route: urlpath.ToURLPath(rel)}, nil
}

// backlinks lists, in file order, every published note other than target
// whose comment-free body links to target.
func backlinks(res *vault.Result, target string) []string {
	out := []string{}
	for path, f := range res.Files.All() {
		if path == target {
			continue
		}
		for _, link := range parser.ExtractLinks(parser.StripComments(f.Body)) {
			if rel, ok := markup.Resolve(res.AliasMap, link); ok && rel == target {
				out = append(out, path)
				break
			}
		}
	}
	return out
}
