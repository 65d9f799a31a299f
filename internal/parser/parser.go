// Package parser extracts front-matter, comments, and wikilinks from raw
// Markdown text. Every function here is total: malformed input degrades to
// "nothing found" instead of an error.
package parser

import (
	"strings"

	"github.com/starford/vaultpress/internal/models"
)

const delim = "---"

// ParseFrontmatter splits raw into its front-matter metadata and body.
//
// A block is recognised only at the very start of the text: an opening "---"
// line, any lines, and a closing line that is exactly "---". LF and CRLF are
// both accepted. Without such a block the default metadata and the unchanged
// text are returned.
func ParseFrontmatter(raw string) (models.NoteMeta, string) {
	block, body, ok := splitFrontmatter(raw)
	if !ok {
		return models.DefaultMeta(), raw
	}
	lines := splitLines(block)
	return models.NoteMeta{
		Publish: publishFlag(lines),
		Tags:    extractList(lines, "tags"),
		Aliases: extractList(lines, "aliases"),
	}, body
}

// splitFrontmatter returns the text between the delimiter lines and the text
// after the closing delimiter's line break.
func splitFrontmatter(raw string) (block, body string, ok bool) {
	rest, found := cutLineBreak(raw, delim)
	if !found {
		return "", "", false
	}
	start := len(raw) - len(rest)

	// Scanning starts at the opening line break so that an empty block
	// ("---\n---\n") closes immediately.
	for off := start - 1; off < len(raw); {
		i := strings.Index(raw[off:], "\n"+delim)
		if i < 0 {
			return "", "", false
		}
		nl := off + i
		if tail, closed := cutLineEnd(raw[nl+1+len(delim):]); closed {
			end := max(nl, start)
			if end > start && raw[end-1] == '\r' {
				end--
			}
			return raw[start:end], tail, true
		}
		off = nl + 1
	}
	return "", "", false
}

// cutLineBreak reports whether s starts with prefix followed by a line break
// and returns what follows the break.
func cutLineBreak(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", false
	}
	if r, ok := strings.CutPrefix(rest, "\r\n"); ok {
		return r, true
	}
	if r, ok := strings.CutPrefix(rest, "\n"); ok {
		return r, true
	}
	return "", false
}

// cutLineEnd accepts an optional "\r", then "\n" or end of text.
func cutLineEnd(s string) (string, bool) {
	s = strings.TrimPrefix(s, "\r")
	if s == "" {
		return "", true
	}
	if r, ok := strings.CutPrefix(s, "\n"); ok {
		return r, true
	}
	return "", false
}

func splitLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func publishFlag(lines []string) bool {
	for _, l := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(l), "publish:")
		if ok && strings.TrimSpace(rest) == "true" {
			return true
		}
	}
	return false
}

// extractList returns the entries of a one-level YAML block list, e.g.
//
//	tags:
//	  - foo
//	  - bar
func extractList(lines []string, key string) []string {
	out := []string{}
	for i, l := range lines {
		rest, ok := strings.CutPrefix(l, key+":")
		if !ok || strings.TrimSpace(rest) != "" {
			continue
		}
		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		for ; j < len(lines); j++ {
			item, ok := listItem(lines[j])
			if !ok {
				break
			}
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return out
}

// listItem parses "<indent>-<space><value>". Indentation is mandatory.
func listItem(line string) (string, bool) {
	rest := strings.TrimLeft(line, " \t")
	if len(rest) == len(line) {
		return "", false
	}
	rest, ok := strings.CutPrefix(rest, "-")
	if !ok {
		return "", false
	}
	value := strings.TrimLeft(rest, " \t")
	if len(value) == len(rest) {
		return "", false
	}
	return strings.TrimSpace(value), true
}
