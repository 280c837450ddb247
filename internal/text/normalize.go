// Package text holds text utilities shared by extraction and search.
package text

import (
	"regexp"
	"strings"
)

// controlRe matches control characters except tab, line feed and carriage return.
var controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize prepares extracted text for storage: control characters are dropped,
// line endings become "\n", runs of blank lines collapse to one empty line and the
// result is trimmed.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = controlRe.ReplaceAllString(s, "")
	s = lineEndings.Replace(s)
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
