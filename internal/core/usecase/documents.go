package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// DocumentCatalogUseCase serves the read and delete side of stored documents.
type DocumentCatalogUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	cache   ports.SearchCacheInvalidator
}

func NewDocumentCatalogUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	cache ports.SearchCacheInvalidator,
) *DocumentCatalogUseCase {
	return &DocumentCatalogUseCase{repo: repo, storage: storage, cache: cache}
}

func (uc *DocumentCatalogUseCase) List(ctx context.Context, page, limit int) (*domain.DocumentList, error) {
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit, DefaultListLimit, MaxListLimit)

	docs, total, err := uc.repo.List(ctx, domain.PageWindow{Offset: (page - 1) * limit, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return &domain.DocumentList{
		Documents:  docs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}

func (uc *DocumentCatalogUseCase) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if id < 1 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", fmt.Errorf("invalid id %d", id))
	}
	return uc.repo.GetByID(ctx, id)
}

// Delete removes the row before the stored file.
func (uc *DocumentCatalogUseCase) Delete(ctx context.Context, id int64) error {
	doc, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document row: %w", err)
	}
	if err := uc.storage.Delete(ctx, doc.FilePath); err != nil {
		slog.Warn("document_file_delete_failed", "document_id", id, "key", doc.FilePath, "error", err)
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return nil
}

func (uc *DocumentCatalogUseCase) Download(ctx context.Context, id int64) (*domain.Download, io.ReadCloser, error) {
	doc, err := uc.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := uc.storage.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return &domain.Download{
		Filename:    doc.OriginalFilename,
		ContentType: ContentTypeFor(doc.Filename),
		Size:        doc.FileSize,
		StorageKey:  doc.FilePath,
	}, body, nil
}
