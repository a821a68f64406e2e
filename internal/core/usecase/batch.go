package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
	"github.com/kirillkom/pdf-archivist/internal/core/ports"
)

// BatchUseCase runs one full pass over the inbox: strictly sequential, one
// document completing (success or failure) before the next begins. A file
// failure never aborts the batch.
type BatchUseCase struct {
	inbox     ports.Inbox
	processor ports.FileProcessor
	observer  ports.BatchObserver
	limiter   *rate.Limiter
	logger    *slog.Logger
}

func NewBatchUseCase(
	inbox ports.Inbox,
	processor ports.FileProcessor,
	observer ports.BatchObserver,
	pause time.Duration,
	logger *slog.Logger,
) *BatchUseCase {
	limit := rate.Inf
	if pause > 0 {
		limit = rate.Every(pause)
	}
	limiter := rate.NewLimiter(limit, 1)
	// Drain the burst token so the first post-file wait already paces.
	limiter.Allow()

	return &BatchUseCase{
		inbox:     inbox,
		processor: processor,
		observer:  observer,
		limiter:   limiter,
		logger:    logger,
	}
}

func (uc *BatchUseCase) Run(ctx context.Context) (domain.BatchSummary, error) {
	summary := domain.BatchSummary{RunID: uuid.NewString()}
	logger := uc.logger.With("run_id", summary.RunID)

	docs, err := uc.inbox.List(ctx)
	if err != nil {
		return summary, err
	}
	summary.Total = len(docs)

	if len(docs) == 0 {
		logger.Info("no_processable_files_found")
		return summary, nil
	}
	logger.Info("batch_started", "files", summary.Total)

	for i := range docs {
		doc := &docs[i]
		logger.Info("processing_file",
			"index", i+1, "total", summary.Total, "file", doc.OriginalName)

		uc.observer.StartFile()
		start := time.Now()
		record, err := uc.processor.Process(ctx, doc)
		uc.observer.FinishFile(time.Since(start), err)

		if err != nil {
			logger.Error("file_failed", "file", doc.OriginalName, "error", err)
			summary.Failed++
			summary.FailedFiles = append(summary.FailedFiles, doc.OriginalName)
			uc.inbox.CleanupTemp(doc.OriginalName)
		} else {
			logger.Info("file_archived",
				"original", record.Original, "new", record.NewName, "destination", record.Destination)
			summary.Succeeded++
			summary.Successes = append(summary.Successes, record)
		}

		// Inter-file pacing to throttle the shared OCR tool and LLM server.
		if err := uc.limiter.Wait(ctx); err != nil {
			uc.relocateFailures(summary.FailedFiles, logger)
			return summary, err
		}
	}

	uc.relocateFailures(summary.FailedFiles, logger)

	logger.Info("batch_summary",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"failed_files", summary.FailedFiles,
	)
	return summary, nil
}

// relocateFailures moves every failed original into the failure holding
// directory. A move failure is logged; the file stays in the bookkeeping.
func (uc *BatchUseCase) relocateFailures(failed []string, logger *slog.Logger) {
	if len(failed) == 0 {
		return
	}
	logger.Info("relocating_failed_files", "count", len(failed))
	for _, name := range failed {
		if err := uc.inbox.MoveToFailed(name); err != nil {
			logger.Error("relocate_failed_file", "file", name, "error", err)
		}
	}
}
