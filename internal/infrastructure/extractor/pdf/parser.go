package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

// NoTextNotice is stored for PDFs that parse but carry no text layer.
const NoTextNotice = "PDF parsed successfully but contains no extractable text. It may be a scanned or image-only document."

type Parser struct{}

func NewParser() Parser {
	return Parser{}
}

func (Parser) Parse(raw []byte) (text string, err error) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrUnsupportedFile, "parse pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFile, "parse pdf", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text = string(data)
	if strings.TrimSpace(text) == "" {
		return NoTextNotice, nil
	}
	return text, nil
}
