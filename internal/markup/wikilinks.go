// Package markup rewrites note bodies into HTML-embeddable text: wikilinks
// become anchors or broken-link spans, and text content is escaped.
package markup

import (
	"strings"

	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/parser"
	"github.com/starford/vaultpress/internal/urlpath"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes &, <, > and double quotes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Resolve looks target up in aliases, first verbatim and then lowercased.
func Resolve(aliases models.AliasMap, target string) (string, bool) {
	if p, ok := aliases[target]; ok {
		return p, true
	}
	p, ok := aliases[strings.ToLower(target)]
	return p, ok
}

// PreprocessWikiLinks replaces every [[target]] and [[target|display]] span
// in body. Resolved targets become
//
//	<a class="wiki-link" href="#/ROUTE">LABEL</a>
//
// and unresolved ones become an inert span titled with the missing target.
// Text outside links is left untouched.
func PreprocessWikiLinks(body string, aliases models.AliasMap) string {
	links := parser.ScanWikiLinks(body)
	if len(links) == 0 {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, l := range links {
		b.WriteString(body[last:l.Start])
		writeLink(&b, l, aliases)
		last = l.End
	}
	b.WriteString(body[last:])
	return b.String()
}

func writeLink(b *strings.Builder, l parser.WikiLink, aliases models.AliasMap) {
	target := strings.TrimSpace(l.Target)
	label := EscapeHTML(l.Label())
	if rel, ok := Resolve(aliases, target); ok {
		b.WriteString(`<a class="wiki-link" href="#/`)
		b.WriteString(urlpath.ToURLPath(rel))
		b.WriteString(`">`)
		b.WriteString(label)
		b.WriteString(`</a>`)
		return
	}
	b.WriteString(`<span class="wiki-link broken" title="Note not found: `)
	b.WriteString(EscapeHTML(target))
	b.WriteString(`">`)
	b.WriteString(label)
	b.WriteString(`</span>`)
}
