package ports

import (
	"context"
	"time"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

// OCREngine produces a searchable PDF from a scanned source. Implementations
// own their repair fallback; a returned nil guarantees outputPath exists.
type OCREngine interface {
	Recognize(ctx context.Context, sourcePath, outputPath string) error
}

// PDFRepairer rewrites a structurally broken PDF to a new output path.
type PDFRepairer interface {
	Repair(ctx context.Context, sourcePath, outputPath string) error
}

// TextExtractor pulls plain text out of an OCR'd PDF.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentClassifier classifies extracted text into the fixed record.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

// Inbox enumerates and mutates the input directory. It is the only component
// allowed to delete or relocate original files.
type Inbox interface {
	List(ctx context.Context) ([]domain.Document, error)
	// TempOCRPath returns the per-source OCR output path, clearing any stale
	// artifact left by an earlier run.
	TempOCRPath(originalName string) (string, error)
	// CleanupTemp best-effort removes the OCR temp artifact of a failed file.
	CleanupTemp(originalName string)
	Remove(originalName string) error
	MoveToFailed(originalName string) error
}

// ArchiveStore places an OCR'd file under archive/{category}/{filename},
// resolving name collisions, and returns the final path.
type ArchiveStore interface {
	Place(ctx context.Context, sourcePath, category, filename string) (string, error)
}

// BatchObserver receives per-file lifecycle events for metrics.
type BatchObserver interface {
	StartFile()
	FinishFile(duration time.Duration, err error)
}
