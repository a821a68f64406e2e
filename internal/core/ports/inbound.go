package ports

import (
	"context"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

// BatchRunner is the inbound contract for one full pass over the inbox.
type BatchRunner interface {
	Run(ctx context.Context) (domain.BatchSummary, error)
}

// FileProcessor drives a single document through OCR, extraction,
// classification and placement.
type FileProcessor interface {
	Process(ctx context.Context, doc *domain.Document) (domain.SuccessRecord, error)
}
