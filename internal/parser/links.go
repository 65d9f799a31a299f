package parser

import "strings"

// WikiLink is one [[target]] or [[target|display]] span found in a body.
// Start and End are byte offsets of the whole span; Target and Display are
// untrimmed.
type WikiLink struct {
	Start      int
	End        int
	Target     string
	Display    string
	HasDisplay bool
}

// Label returns the trimmed text a link should show.
func (l WikiLink) Label() string {
	if l.HasDisplay {
		return strings.TrimSpace(l.Display)
	}
	return strings.TrimSpace(l.Target)
}

// ScanWikiLinks returns the wikilink spans of body in order. Spans never
// overlap; scanning resumes after the end of each match.
//
// The target is a non-empty run of characters other than ']' and '|'; the
// optional display text is a non-empty run of characters other than ']'.
func ScanWikiLinks(body string) []WikiLink {
	var out []WikiLink
	for i := 0; i < len(body); {
		l, ok := matchWikiLink(body, i)
		if !ok {
			next := strings.Index(body[i+1:], "[[")
			if next < 0 {
				break
			}
			i += 1 + next
			continue
		}
		out = append(out, l)
		i = l.End
	}
	return out
}

func matchWikiLink(s string, at int) (WikiLink, bool) {
	if !strings.HasPrefix(s[at:], "[[") {
		return WikiLink{}, false
	}
	ts := at + 2
	te := ts
	for te < len(s) && s[te] != ']' && s[te] != '|' {
		te++
	}
	if te == ts || te == len(s) {
		return WikiLink{}, false
	}
	l := WikiLink{Start: at, Target: s[ts:te]}
	end := te
	if s[te] == '|' {
		ds := te + 1
		de := ds
		for de < len(s) && s[de] != ']' {
			de++
		}
		if de == ds {
			return WikiLink{}, false
		}
		l.Display, l.HasDisplay = s[ds:de], true
		end = de
	}
	if !strings.HasPrefix(s[end:], "]]") {
		return WikiLink{}, false
	}
	l.End = end + 2
	return l, true
}

// ExtractLinks returns the deduplicated, trimmed wikilink targets of body in
// order of first appearance.
func ExtractLinks(body string) []string {
	links := ScanWikiLinks(body)
	seen := make(map[string]struct{}, len(links))
	var out []string
	for _, l := range links {
		target := strings.TrimSpace(l.Target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}
