package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
	"github.com/kirillkom/pdf-archivist/internal/core/ports"
)

// ProcessFileUseCase drives one document through OCR, text extraction,
// classification and archive placement. Any stage error aborts the file; the
// batch runner owns the failure bookkeeping.
type ProcessFileUseCase struct {
	ocr          ports.OCREngine
	extractor    ports.TextExtractor
	classifier   ports.DocumentClassifier
	archive      ports.ArchiveStore
	inbox        ports.Inbox
	minTextChars int
	logger       *slog.Logger
}

func NewProcessFileUseCase(
	ocr ports.OCREngine,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	archive ports.ArchiveStore,
	inbox ports.Inbox,
	minTextChars int,
	logger *slog.Logger,
) *ProcessFileUseCase {
	return &ProcessFileUseCase{
		ocr:          ocr,
		extractor:    extractor,
		classifier:   classifier,
		archive:      archive,
		inbox:        inbox,
		minTextChars: minTextChars,
		logger:       logger,
	}
}

func (uc *ProcessFileUseCase) Process(ctx context.Context, doc *domain.Document) (domain.SuccessRecord, error) {
	if err := uc.runOCR(ctx, doc); err != nil {
		return domain.SuccessRecord{}, err
	}
	if err := uc.extractText(ctx, doc); err != nil {
		return domain.SuccessRecord{}, err
	}
	if err := uc.classify(ctx, doc); err != nil {
		return domain.SuccessRecord{}, err
	}
	return uc.place(ctx, doc)
}

func (uc *ProcessFileUseCase) runOCR(ctx context.Context, doc *domain.Document) error {
	ocrPath, err := uc.inbox.TempOCRPath(doc.OriginalName)
	if err != nil {
		return fmt.Errorf("prepare ocr temp path: %w", err)
	}
	doc.OCRPath = ocrPath

	if err := uc.ocr.Recognize(ctx, doc.OriginalPath, doc.OCRPath); err != nil {
		return fmt.Errorf("ocr document: %w", err)
	}
	return nil
}

func (uc *ProcessFileUseCase) extractText(ctx context.Context, doc *domain.Document) error {
	text, err := uc.extractor.Extract(ctx, doc.OCRPath)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.WrapError(domain.ErrEmptyText, "extract text",
			errors.New("ocr produced no extractable text"))
	}
	// Short text is suspicious but not fatal; empty text is.
	if len(trimmed) < uc.minTextChars {
		uc.logger.Warn("very_short_text",
			"file", doc.OriginalName, "chars", len(trimmed), "threshold", uc.minTextChars)
	}

	doc.Text = text
	return nil
}

func (uc *ProcessFileUseCase) classify(ctx context.Context, doc *domain.Document) error {
	result, err := uc.classifier.Classify(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("classify document: %w", err)
	}
	doc.Result = &result
	uc.logger.Info("document_classified",
		"file", doc.OriginalName,
		"date", result.Date,
		"sender", result.Sender,
		"title", result.Title,
		"category", result.Category,
	)
	return nil
}

func (uc *ProcessFileUseCase) place(ctx context.Context, doc *domain.Document) (domain.SuccessRecord, error) {
	names := resolveNaming(*doc.Result, doc.OriginalName, uc.logger)

	final, err := uc.archive.Place(ctx, doc.OCRPath, names.Category, names.Filename)
	if err != nil {
		return domain.SuccessRecord{}, domain.WrapError(domain.ErrMoveFailed, "place in archive", err)
	}
	doc.FinalPath = final

	// The original goes away only after the archive move has succeeded.
	if err := uc.inbox.Remove(doc.OriginalName); err != nil {
		return domain.SuccessRecord{}, domain.WrapError(domain.ErrMoveFailed, "delete original", err)
	}

	return domain.SuccessRecord{
		Original:    doc.OriginalName,
		NewName:     filepath.Base(final),
		Destination: final,
	}, nil
}
