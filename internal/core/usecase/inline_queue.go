package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/silindokuhleL/document-search-portal/internal/core/ports"
)

// InlineQueue satisfies ports.MessageQueue by processing uploads synchronously.
// It is used when no message broker is configured.
type InlineQueue struct {
	processor ports.DocumentProcessor
}

func NewInlineQueue(processor ports.DocumentProcessor) *InlineQueue {
	return &InlineQueue{processor: processor}
}

func (q *InlineQueue) PublishDocumentUploaded(ctx context.Context, documentID int64) error {
	if err := q.processor.ProcessByID(ctx, documentID); err != nil {
		// The failure is recorded on the document; the upload itself succeeded.
		slog.Error("document_process_failed", "document_id", documentID, "error", err)
	}
	return nil
}

func (q *InlineQueue) SubscribeDocumentUploaded(context.Context, func(context.Context, int64) error) error {
	return errors.New("inline queue has no subscribers")
}
