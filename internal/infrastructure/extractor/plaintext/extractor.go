package plaintext

import (
	"bytes"
	"errors"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

const binarySniffLength = 8 << 10

type Parser struct{}

func NewParser() Parser {
	return Parser{}
}

// Parse returns raw as text. Invalid UTF-8 is left for the normalizer to drop; NUL bytes
// near the start mark a binary file.
func (Parser) Parse(raw []byte) (string, error) {
	head := raw[:min(len(raw), binarySniffLength)]
	if bytes.IndexByte(head, 0) >= 0 {
		return "", domain.WrapError(domain.ErrUnsupportedFile, "parse text", errors.New("binary content in text file"))
	}
	return string(raw), nil
}
