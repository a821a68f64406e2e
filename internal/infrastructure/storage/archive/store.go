// Package archive owns the category-based archive tree.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Store struct {
	root   string
	logger *slog.Logger
}

func New(root string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Place moves sourcePath to {root}/{category}/{filename}, creating the
// category directory and resolving filename collisions. Returns the final
// absolute destination.
func (s *Store) Place(_ context.Context, sourcePath, category, filename string) (string, error) {
	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}

	target := filepath.Join(dir, filename)
	final := NextAvailablePath(target)
	if final != target {
		s.logger.Warn("destination_exists",
			"wanted", filepath.Base(target), "using", filepath.Base(final))
	}

	if err := MoveFile(sourcePath, final); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	return final, nil
}
