package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"

	minHighlightTokenLength = 3
)

// Highlight wraps every case-insensitive occurrence of each query token longer than two
// characters in <mark> tags. Spans marked by an earlier token are not searched again, so
// markers never nest. Tags already present in the preview text are treated as plain text.
func Highlight(preview, query string) string {
	if preview == "" {
		return preview
	}
	segments := []segment{{text: preview}}
	for _, token := range strings.Fields(query) {
		if utf8.RuneCountInString(token) < minHighlightTokenLength {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
		segments = markMatches(segments, re)
	}

	var b strings.Builder
	b.Grow(len(preview))
	for _, seg := range segments {
		if seg.marked {
			b.WriteString(markOpen)
			b.WriteString(seg.text)
			b.WriteString(markClose)
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String()
}

// segment is a run of preview text; marked runs were produced by a match.
type segment struct {
	text   string
	marked bool
}

func markMatches(segments []segment, re *regexp.Regexp) []segment {
	out := make([]segment, 0, len(segments))
	for _, seg := range segments {
		if seg.marked {
			out = append(out, seg)
			continue
		}
		last := 0
		for _, loc := range re.FindAllStringIndex(seg.text, -1) {
			if loc[0] > last {
				out = append(out, segment{text: seg.text[last:loc[0]]})
			}
			out = append(out, segment{text: seg.text[loc[0]:loc[1]], marked: true})
			last = loc[1]
		}
		if last < len(seg.text) {
			out = append(out, segment{text: seg.text[last:]})
		}
	}
	return out
}
