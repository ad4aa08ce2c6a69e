package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"medialib/pkg/logger"
)

// DefaultSweepTTL is how long a temp file may sit before it is considered
// abandoned by a crashed transformer.
const DefaultSweepTTL = 2 * time.Hour

// SweepTempFiles removes stale local working copies from dir. Only files the
// library itself created (the "medialib-" prefix) are touched.
func SweepTempFiles(dir string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSweepTTL
	}
	cutoff := time.Now().Add(-ttl)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("temp sweep: cannot read dir", "dir", dir, "error", err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "medialib-") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			logger.Warn("temp sweep: cannot remove file", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("temp sweep completed", "dir", dir, "removed", removed)
	}
}
