// Package inbox owns the input directory: enumeration of eligible PDFs,
// per-source temp naming, and relocation of failed originals.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/storage/archive"
)

// Reserved temp suffixes: files carrying them are artifacts of this tool and
// never enumerated as input.
const (
	tempOCRSuffix    = "_ocr_temp.pdf"
	tempRepairSuffix = "_repaired_temp.pdf"
)

type Inbox struct {
	dir       string
	failedDir string
	logger    *slog.Logger
}

func New(dir, failedDir string, logger *slog.Logger) (*Inbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}
	if err := os.MkdirAll(failedDir, 0o755); err != nil {
		return nil, fmt.Errorf("create failed dir: %w", err)
	}
	return &Inbox{dir: dir, failedDir: failedDir, logger: logger}, nil
}

// List enumerates *.pdf files in the inbox, excluding the reserved temp
// suffixes, in deterministic name order.
func (i *Inbox) List(_ context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox dir: %w", err)
	}

	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		if strings.HasSuffix(name, tempOCRSuffix) || strings.HasSuffix(name, tempRepairSuffix) {
			continue
		}
		docs = append(docs, domain.Document{
			OriginalName: name,
			OriginalPath: filepath.Join(i.dir, name),
		})
	}

	sort.Slice(docs, func(a, b int) bool { return docs[a].OriginalName < docs[b].OriginalName })
	return docs, nil
}

// TempOCRPath returns the per-source OCR output path inside the inbox and
// clears any stale artifact left by an earlier run.
func (i *Inbox) TempOCRPath(originalName string) (string, error) {
	path := filepath.Join(i.dir, tempOCRName(originalName))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("clear stale ocr temp: %w", err)
	}
	return path, nil
}

// CleanupTemp best-effort removes the OCR temp artifact of a failed file.
func (i *Inbox) CleanupTemp(originalName string) {
	path := filepath.Join(i.dir, tempOCRName(originalName))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		i.logger.Warn("remove_ocr_temp_failed", "path", path, "error", err)
	}
}

func (i *Inbox) Remove(originalName string) error {
	if err := os.Remove(filepath.Join(i.dir, originalName)); err != nil {
		return fmt.Errorf("remove original: %w", err)
	}
	i.logger.Info("original_deleted", "file", originalName)
	return nil
}

// MoveToFailed relocates a failed original into the holding directory,
// overwriting a same-named prior failure with a warning. A missing original
// is logged and tolerated.
func (i *Inbox) MoveToFailed(originalName string) error {
	src := filepath.Join(i.dir, originalName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		i.logger.Warn("failed_original_missing", "file", originalName)
		return nil
	}

	dst := filepath.Join(i.failedDir, originalName)
	if _, err := os.Stat(dst); err == nil {
		i.logger.Warn("overwriting_previous_failure", "file", originalName)
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("remove prior failure: %w", err)
		}
	}

	if err := archive.MoveFile(src, dst); err != nil {
		return fmt.Errorf("move to failed dir: %w", err)
	}
	i.logger.Info("moved_to_failed", "file", originalName)
	return nil
}

func tempOCRName(originalName string) string {
	stem := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	return stem + tempOCRSuffix
}
