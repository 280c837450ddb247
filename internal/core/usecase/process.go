package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
	"github.com/silindokuhleL/document-search-portal/internal/text"
)

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	extractor ports.TextExtractor
	cache     ports.SearchCacheInvalidator
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	cache ports.SearchCacheInvalidator,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		extractor: extractor,
		cache:     cache,
	}
}

// ProcessByID extracts, normalizes and stores the text of an uploaded document.
func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID int64) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	content, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	slog.Info("document_processed", "document_id", documentID, "content_chars", len([]rune(content)))
	return nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID int64) (string, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("fetch document by id: %w", err)
	}

	raw, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	content := text.Normalize(raw)
	if err := uc.repo.SaveContent(ctx, doc.ID, content); err != nil {
		return "", fmt.Errorf("save content: %w", err)
	}
	return content, nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID int64, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID int64, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
