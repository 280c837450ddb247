package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultPreviewLength = 500
	ellipsis             = "..."
)

// ExtractSnippet returns a window of at most maxLength characters around the earliest
// occurrence of any query token. The match is placed in the first third of the window.
// Without a match the leading maxLength characters are returned as-is.
func ExtractSnippet(content, query string, maxLength int) string {
	if content == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultPreviewLength
	}

	runes := []rune(content)
	pos := firstMatchPosition(content, query)
	if pos < 0 {
		if len(runes) <= maxLength {
			return content
		}
		return string(runes[:maxLength])
	}

	start := pos - maxLength/3
	if start < 0 {
		start = 0
	}
	end := start + maxLength
	if end > len(runes) {
		end = len(runes)
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// firstMatchPosition returns the rune offset of the earliest case-insensitive token
// occurrence, or -1.
func firstMatchPosition(content, query string) int {
	lowered := lowerRunes(content)
	best := -1
	for _, token := range strings.Fields(query) {
		idx := strings.Index(lowered, lowerRunes(token))
		if idx < 0 {
			continue
		}
		pos := utf8.RuneCountInString(lowered[:idx])
		if best < 0 || pos < best {
			best = pos
		}
	}
	return best
}

// lowerRunes lower-cases rune by rune so rune offsets stay aligned with the input.
func lowerRunes(s string) string {
	return strings.Map(unicode.ToLower, s)
}
