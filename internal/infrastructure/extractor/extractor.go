// Package extractor turns stored uploads into plain text by dispatching on file type.
package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/extractor/office"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/extractor/pdf"
	"github.com/silindokuhleL/document-search-portal/internal/infrastructure/extractor/plaintext"
)

// DefaultMaxSourceBytes bounds how much of a stored file is read for extraction.
const DefaultMaxSourceBytes int64 = 32 << 20

// Parser converts the raw bytes of one file format to text.
type Parser interface {
	Parse(raw []byte) (string, error)
}

type Extractor struct {
	storage  ports.ObjectStorage
	parsers  map[string]Parser
	maxBytes int64
}

// New returns an extractor wired with the pdf, txt, docx and xlsx parsers.
func New(storage ports.ObjectStorage, maxBytes int64) *Extractor {
	return NewWithParsers(storage, maxBytes, map[string]Parser{
		"pdf":  pdf.NewParser(),
		"txt":  plaintext.NewParser(),
		"docx": office.NewDocxParser(),
		"xlsx": office.NewXlsxParser(),
	})
}

func NewWithParsers(storage ports.ObjectStorage, maxBytes int64, parsers map[string]Parser) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSourceBytes
	}
	return &Extractor{storage: storage, parsers: parsers, maxBytes: maxBytes}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Filename), "."))
	parser, ok := e.parsers[ext]
	if !ok {
		return "", domain.WrapError(domain.ErrUnsupportedFile, "extract text", fmt.Errorf("no parser for %q", doc.Filename))
	}

	reader, err := e.storage.Open(ctx, doc.FilePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(io.LimitReader(reader, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}
	if int64(len(raw)) > e.maxBytes {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
			fmt.Errorf("source exceeds %d bytes", e.maxBytes))
	}

	return parser.Parse(raw)
}
