// Package ghostscript rewrites malformed PDFs through Ghostscript's pdfwrite
// device under the prepress profile. Failures are terminal at this layer;
// the OCR engine decides whether a repair is attempted at all.
package ghostscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
)

type Repairer struct {
	binary string
	logger *slog.Logger
}

func New(binary string, logger *slog.Logger) *Repairer {
	return &Repairer{binary: binary, logger: logger}
}

func (r *Repairer) Repair(ctx context.Context, sourcePath, outputPath string) error {
	args := []string{
		"-o", outputPath,
		"-sDEVICE=pdfwrite",
		"-dPDFSETTINGS=/prepress",
		sourcePath,
	}

	r.logger.Info("repairing_pdf",
		"file", filepath.Base(sourcePath), "output", filepath.Base(outputPath))

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		if _, statErr := os.Stat(outputPath); statErr != nil {
			return domain.WrapError(domain.ErrToolExecution, "verify repaired output",
				fmt.Errorf("repaired file %s missing: %w", filepath.Base(outputPath), statErr))
		}
		r.logger.Info("repair_succeeded", "file", filepath.Base(sourcePath))
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		r.logger.Error("repair_binary_missing", "binary", r.binary)
		return domain.WrapError(domain.ErrToolNotFound, "run ghostscript", err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr := &domain.ToolExitError{
			Tool:   "ghostscript",
			Code:   exitErr.ExitCode(),
			Stderr: stderr.String(),
		}
		r.logger.Error("repair_failed",
			"file", filepath.Base(sourcePath), "exit_code", toolErr.Code, "stderr", toolErr.Stderr)
		return domain.WrapError(domain.ErrToolExecution, "run ghostscript", toolErr)
	}

	r.logger.Error("repair_failed", "file", filepath.Base(sourcePath), "error", err)
	return domain.WrapError(domain.ErrToolExecution, "run ghostscript", err)
}
