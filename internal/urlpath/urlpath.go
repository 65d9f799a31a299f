// Package urlpath maps vault-relative file paths to the routes used in
// links and in the route table.
package urlpath

import "strings"

const upperhex = "0123456789ABCDEF"

// ToURLPath returns the route for a vault-relative path: ".md" is stripped
// from the last segment only, spaces become hyphens in every segment, and
// each segment is percent-encoded with parentheses left as is.
func ToURLPath(path string) string {
	segs := strings.Split(path, "/")
	last := len(segs) - 1
	for i, seg := range segs {
		if i == last {
			seg = strings.TrimSuffix(seg, ".md")
		}
		segs[i] = EncodeComponent(strings.ReplaceAll(seg, " ", "-"))
	}
	return strings.Join(segs, "/")
}

// EncodeRoute percent-encodes each segment of a decoded route, turning it
// back into the form ToURLPath produces.
func EncodeRoute(route string) string {
	segs := strings.Split(route, "/")
	for i, seg := range segs {
		segs[i] = EncodeComponent(seg)
	}
	return strings.Join(segs, "/")
}

// EncodeComponent percent-encodes s the way browsers' encodeURIComponent
// does: every byte outside A-Z a-z 0-9 and -_.!~*'() is escaped.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
