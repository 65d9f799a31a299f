// Package search implements substring search over published vault files.
package search

import (
	"strings"
	"unicode"

	"github.com/starford/vaultpress/internal/markup"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/vault"
)

// MaxResults caps the number of results of a single query.
const MaxResults = 20

// TagPrefix switches a query to tag filtering.
const TagPrefix = "tag:"

const (
	contextBefore = 60
	contextAfter  = 120
	ellipsis      = "…"
	markOpen      = "<mark>"
	markClose     = "</mark>"
)

// Mode classifies a query.
type Mode string

// Query modes.
const (
	ModeEmpty Mode = "empty"
	ModeTag   Mode = "tag"
	ModeText  Mode = "text"
)

// Classify reports how query will be interpreted by Files.
func Classify(query string) Mode {
	q := strings.TrimSpace(strings.ToLower(query))
	switch {
	case q == "":
		return ModeEmpty
	case strings.HasPrefix(q, TagPrefix):
		return ModeTag
	default:
		return ModeText
	}
}

// Files returns up to MaxResults files matching query, in the set's order.
//
// A "tag:" query matches files with a tag containing the rest of the query.
// Any other query is split on whitespace and matches files whose title or
// body contains at least one term, case-insensitively. Body matches carry an
// HTML excerpt with every term occurrence wrapped in <mark>.
func Files(files *models.FileSet, query string) []models.SearchResult {
	results := []models.SearchResult{}
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return results
	}

	if filter, ok := strings.CutPrefix(q, TagPrefix); ok {
		filter = strings.TrimSpace(filter)
		for path, f := range files.All() {
			if len(results) >= MaxResults {
				break
			}
			if hasTag(f.Meta.Tags, filter) {
				results = append(results, models.SearchResult{Path: path, Title: vault.Stem(path)})
			}
		}
		return results
	}

	terms := toRunes(strings.Fields(q))
	for path, f := range files.All() {
		if len(results) >= MaxResults {
			break
		}
		title := vault.Stem(path)
		body := []rune(collapseNewlines(f.Body))
		lower := lowerRunes(body)

		at, n := earliest(lower, terms)
		if at < 0 && !titleMatch(title, terms) {
			continue
		}
		r := models.SearchResult{Path: path, Title: title}
		if at >= 0 {
			r.Excerpt = excerpt(body, lower, terms, at, n)
		}
		results = append(results, r)
	}
	return results
}

func hasTag(tags []string, filter string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), filter) {
			return true
		}
	}
	return false
}

func titleMatch(title string, terms [][]rune) bool {
	lower := lowerRunes([]rune(title))
	at, _ := earliest(lower, terms)
	return at >= 0
}

// excerpt renders the window around the match at [at, at+n).
func excerpt(body, lower []rune, terms [][]rune, at, n int) string {
	start := max(0, at-contextBefore)
	end := min(len(body), at+n+contextAfter)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	plain := start
	for i := start; i < end; {
		m := longestAt(lower[:end], terms, i)
		if m == 0 {
			i++
			continue
		}
		b.WriteString(markup.EscapeHTML(string(body[plain:i])))
		b.WriteString(markOpen)
		b.WriteString(markup.EscapeHTML(string(body[i : i+m])))
		b.WriteString(markClose)
		i += m
		plain = i
	}
	b.WriteString(markup.EscapeHTML(string(body[plain:end])))
	if end < len(body) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// earliest returns the offset and length of the first occurrence of any
// term in s, preferring the longest term on ties, or -1.
func earliest(s []rune, terms [][]rune) (int, int) {
	for i := range s {
		if n := longestAt(s, terms, i); n > 0 {
			return i, n
		}
	}
	return -1, 0
}

// longestAt returns the length of the longest term occurring at s[i:].
func longestAt(s []rune, terms [][]rune, i int) int {
	best := 0
	for _, t := range terms {
		if len(t) > best && hasPrefixAt(s, t, i) {
			best = len(t)
		}
	}
	return best
}

func hasPrefixAt(s, t []rune, i int) bool {
	if i+len(t) > len(s) {
		return false
	}
	for j, r := range t {
		if s[i+j] != r {
			return false
		}
	}
	return true
}

// collapseNewlines replaces every run of line breaks with one space.
func collapseNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inBreak := false
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		b.WriteRune(r)
	}
	return b.String()
}

// lowerRunes lowercases rune by rune so offsets match the original.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func toRunes(terms []string) [][]rune {
	out := make([][]rune, len(terms))
	for i, t := range terms {
		out[i] = []rune(t)
	}
	return out
}
