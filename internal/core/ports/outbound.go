package ports

import (
	"context"
	"io"
	"time"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

// DocumentRepository persists and reads document rows.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context, window domain.PageWindow) ([]domain.Document, int, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.DocumentStatus, errMessage string) error
	SaveContent(ctx context.Context, id int64, text string) error
}

// CorpusStore runs the store-native matching primitives used by search.
type CorpusStore interface {
	// MatchSubstring matches documents whose content or filename contains any of the
	// patterns (case-insensitive). Every candidate scores 1.
	MatchSubstring(ctx context.Context, patterns []string, order domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error)
	// MatchRelevance matches documents by natural-language full-text relevance on content,
	// or by filename substring (score 0 when only the filename matched).
	MatchRelevance(ctx context.Context, query string, order domain.SortOrder, window domain.PageWindow) (domain.CandidatePage, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID int64) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, int64) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// CacheStore is a byte-oriented key/value substrate with per-entry TTL.
// Get returns domain.ErrCacheMiss for absent or expired keys.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// SearchCacheInvalidator drops cached search pages after the corpus changes.
type SearchCacheInvalidator interface {
	Invalidate(ctx context.Context)
}
