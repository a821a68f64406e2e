package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/pdf-archivist/internal/config"
	"github.com/kirillkom/pdf-archivist/internal/core/ports"
	"github.com/kirillkom/pdf-archivist/internal/core/usecase"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/ocr/ocrmypdf"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/repair/ghostscript"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/resilience"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/storage/archive"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/storage/inbox"
	"github.com/kirillkom/pdf-archivist/internal/observability/logging"
	"github.com/kirillkom/pdf-archivist/internal/observability/metrics"
)

const serviceName = "pdf-archivist"

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.BatchMetrics
	BatchUC ports.BatchRunner

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	logger, closeLog, err := logging.New(serviceName, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	batchMetrics := metrics.NewBatchMetrics(serviceName)

	inboxStore, err := inbox.New(cfg.InboxDir, cfg.FailedDir, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init inbox: %w", err)
	}
	archiveStore, err := archive.New(cfg.ArchiveDir, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init archive: %w", err)
	}

	repairer := ghostscript.New(cfg.RepairBinary, logger)
	ocrEngine := ocrmypdf.New(cfg.OCRBinary, cfg.OCRLanguages, repairer, batchMetrics, logger)
	extractor := pdftext.New(logger)

	breaker := resilience.NewBreaker("ollama-classify", resilience.DefaultConfig(), logger)
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.LLMModel, cfg.LLMTimeout())
	classifier := ollama.NewClassifier(ollamaClient, breaker, cfg.Categories, cfg.MaxPromptChars, logger)

	processUC := usecase.NewProcessFileUseCase(
		ocrEngine, extractor, classifier, archiveStore, inboxStore, cfg.MinTextChars, logger)
	batchUC := usecase.NewBatchUseCase(
		inboxStore, processUC, batchMetrics, cfg.InterFilePause(), logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: batchMetrics,
		BatchUC: batchUC,
		closeFn: closeLog,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
