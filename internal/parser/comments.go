package parser

import "strings"

// CommentMarker opens and closes an annotation block.
const CommentMarker = "%%"

// StripComments removes every %%...%% block, including blocks spanning
// several lines. Each opening marker is closed by the first marker after it;
// an opening marker without a partner leaves the rest of the text as is.
func StripComments(text string) string {
	if !strings.Contains(text, CommentMarker) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	rest := text
	for {
		open := strings.Index(rest, CommentMarker)
		if open < 0 {
			break
		}
		closeAt := strings.Index(rest[open+len(CommentMarker):], CommentMarker)
		if closeAt < 0 {
			break
		}
		b.WriteString(rest[:open])
		rest = rest[open+2*len(CommentMarker)+closeAt:]
	}
	b.WriteString(rest)
	return b.String()
}
