package ports

import (
	"context"
	"io"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, size int64, body io.Reader) (*domain.Document, error)
}

// DocumentSearcher is the inbound contract for keyword search and phrase suggestions.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, sortBy domain.SortOrder, page, pageSize int) (domain.ResultPage, error)
	Suggestions(ctx context.Context, query string, limit int) ([]string, error)
}

// DocumentCatalog is the inbound read/delete model for stored documents.
type DocumentCatalog interface {
	List(ctx context.Context, page, limit int) (*domain.DocumentList, error)
	Get(ctx context.Context, id int64) (*domain.Document, error)
	Delete(ctx context.Context, id int64) error
	Download(ctx context.Context, id int64) (*domain.Download, io.ReadCloser, error)
}

// DocumentProcessor is the inbound contract for text extraction of uploaded documents.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID int64) error
}
