package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NextAvailablePath returns path unchanged when nothing exists there;
// otherwise it probes "{stem} ({n}){ext}" with n = 1, 2, ... until an unused
// path is found. Read-only; the caller performs the eventual creation.
func NextAvailablePath(path string) string {
	if !exists(path) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	dir := filepath.Dir(path)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
