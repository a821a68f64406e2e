// Package ocrmypdf drives the external OCR tool. A non-zero exit with the
// documented rasterizer failure code triggers a single Ghostscript repair of
// the source followed by one more OCR attempt with the repaired file.
package ocrmypdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
	"github.com/kirillkom/pdf-archivist/internal/core/ports"
)

// rasterizerExitCode is ocrmypdf's exit status for a failure in the
// downstream Ghostscript rasterizer.
const rasterizerExitCode = 7

const repairedTempSuffix = "_repaired_temp"

// RepairObserver counts triggered repair attempts.
type RepairObserver interface {
	RepairAttempt()
}

type Engine struct {
	binary    string
	languages string
	repairer  ports.PDFRepairer
	observer  RepairObserver
	logger    *slog.Logger
}

// New builds the engine. observer may be nil.
func New(binary, languages string, repairer ports.PDFRepairer, observer RepairObserver, logger *slog.Logger) *Engine {
	return &Engine{
		binary:    binary,
		languages: languages,
		repairer:  repairer,
		observer:  observer,
		logger:    logger,
	}
}

// Recognize OCRs sourcePath into outputPath. The loop runs at most twice: the
// repaired flag guarantees the repair path is attempted once per source file,
// and the repaired temp file is deleted regardless of the retry's outcome.
func (e *Engine) Recognize(ctx context.Context, sourcePath, outputPath string) (err error) {
	input := sourcePath
	repaired := false
	var repairedTemp string

	defer func() {
		if repairedTemp == "" {
			return
		}
		if rmErr := os.Remove(repairedTemp); rmErr != nil && !os.IsNotExist(rmErr) {
			e.logger.Warn("remove_repaired_temp_failed", "path", repairedTemp, "error", rmErr)
		}
	}()

	for {
		runErr := e.run(ctx, input, outputPath, repaired)
		if runErr == nil {
			return e.verifyOutput(outputPath)
		}
		if repaired || !domain.IsKind(runErr, domain.ErrRasterizer) {
			return runErr
		}

		e.logger.Warn("rasterizer_failure_detected",
			"file", filepath.Base(sourcePath), "error", runErr)
		if e.observer != nil {
			e.observer.RepairAttempt()
		}

		repairedTemp = repairTempPath(sourcePath)
		if rmErr := os.Remove(repairedTemp); rmErr != nil && !os.IsNotExist(rmErr) {
			return domain.WrapError(domain.ErrRepairFailed, "clear stale repaired temp", rmErr)
		}
		if repErr := e.repairer.Repair(ctx, sourcePath, repairedTemp); repErr != nil {
			return domain.WrapError(domain.ErrRepairFailed, "repair pdf", repErr)
		}

		e.logger.Info("retrying_ocr_with_repaired_file",
			"file", filepath.Base(sourcePath), "repaired", filepath.Base(repairedTemp))
		input = repairedTemp
		repaired = true
	}
}

func (e *Engine) run(ctx context.Context, input, output string, retry bool) error {
	args := []string{
		"--output-type", "pdfa",
		"--force-ocr",
		"--language", e.languages,
		"--rotate-pages",
		"--deskew",
		input,
		output,
	}

	action := "running_ocr"
	if retry {
		action = "retrying_ocr"
	}
	e.logger.Info(action, "file", filepath.Base(input), "output", filepath.Base(output))

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		e.logger.Info("ocr_succeeded", "file", filepath.Base(input))
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		e.logger.Error("ocr_binary_missing", "binary", e.binary)
		return domain.WrapError(domain.ErrToolNotFound, "run ocrmypdf", err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr := &domain.ToolExitError{
			Tool:   "ocrmypdf",
			Code:   exitErr.ExitCode(),
			Stderr: stderr.String(),
		}
		e.logger.Error("ocr_failed",
			"file", filepath.Base(input), "exit_code", toolErr.Code, "stderr", toolErr.Stderr)
		if isRasterizerSignature(toolErr) {
			return domain.WrapError(domain.ErrRasterizer, "run ocrmypdf", toolErr)
		}
		return domain.WrapError(domain.ErrToolExecution, "run ocrmypdf", toolErr)
	}

	e.logger.Error("ocr_failed", "file", filepath.Base(input), "error", err)
	return domain.WrapError(domain.ErrToolExecution, "run ocrmypdf", err)
}

func (e *Engine) verifyOutput(outputPath string) error {
	if _, err := os.Stat(outputPath); err != nil {
		return domain.WrapError(domain.ErrToolExecution, "verify ocr output",
			fmt.Errorf("output %s missing after successful run: %w", filepath.Base(outputPath), err))
	}
	return nil
}

func isRasterizerSignature(err *domain.ToolExitError) bool {
	return err.Code == rasterizerExitCode &&
		strings.Contains(strings.ToLower(err.Stderr), "ghostscript")
}

func repairTempPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	stem := strings.TrimSuffix(filepath.Base(sourcePath), ext)
	return filepath.Join(filepath.Dir(sourcePath), stem+repairedTempSuffix+ext)
}
