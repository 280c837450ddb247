package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

const DefaultMaxUploadBytes int64 = 10 << 20

var basenameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type IngestConfig struct {
	MaxUploadBytes    int64
	AllowedExtensions []string
}

type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	cfg     IngestConfig
	now     func() time.Time
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	cfg IngestConfig,
) *IngestDocumentUseCase {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultAllowedExtensions
	}
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Upload stores the file, records its metadata and schedules text extraction.
func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	original := filepath.Base(strings.TrimSpace(filename))
	if err := uc.validate(original, size); err != nil {
		return nil, err
	}

	storedName := uniqueFilename(original, uc.now())
	written, err := uc.storage.Save(ctx, storedName, io.LimitReader(body, uc.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}
	if written > uc.cfg.MaxUploadBytes {
		uc.discard(ctx, storedName)
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("file exceeds %d bytes", uc.cfg.MaxUploadBytes))
	}
	if written == 0 {
		uc.discard(ctx, storedName)
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("file is empty"))
	}

	now := uc.now().UTC()
	doc := &domain.Document{
		Filename:         storedName,
		OriginalFilename: original,
		FilePath:         storedName,
		FileSize:         written,
		FileType:         fileTypeFor(original, mimeType),
		Status:           domain.StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		uc.discard(ctx, storedName)
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	// Inline processing may already have moved the document past "uploaded".
	if current, err := uc.repo.GetByID(ctx, doc.ID); err == nil {
		return current, nil
	}
	return doc, nil
}

func (uc *IngestDocumentUseCase) validate(filename string, size int64) error {
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload", errors.New("filename is required"))
	}
	ext := FileExtension(filename)
	if !slices.Contains(uc.cfg.AllowedExtensions, ext) {
		return domain.WrapError(domain.ErrUnsupportedFile, "validate upload",
			fmt.Errorf("extension %q is not allowed", ext))
	}
	if size > uc.cfg.MaxUploadBytes {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file exceeds %d bytes", uc.cfg.MaxUploadBytes))
	}
	return nil
}

func (uc *IngestDocumentUseCase) discard(ctx context.Context, key string) {
	if err := uc.storage.Delete(ctx, key); err != nil {
		slog.Warn("upload_cleanup_failed", "key", key, "error", err)
	}
}

// uniqueFilename builds "<basename>_<unix>_<uuid8>.<ext>" from the client filename.
func uniqueFilename(original string, now time.Time) string {
	ext := FileExtension(original)
	base := strings.TrimSuffix(original, filepath.Ext(original))
	base = basenameSanitizeRe.ReplaceAllString(base, "_")
	if base == "" {
		base = "document"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s.%s", base, now.Unix(), suffix, ext)
}

func fileTypeFor(filename, mimeType string) string {
	if ct := ContentTypeFor(filename); ct != "application/octet-stream" {
		return ct
	}
	if mimeType = strings.TrimSpace(mimeType); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
