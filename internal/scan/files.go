package scan

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"

	"ripkit/internal/logging"
)

// FileFilter selects media files by glob pattern and minimum size.
type FileFilter struct {
	logger *slog.Logger
}

// NewFileFilter constructs a filter; a nil logger disables exclusion
// logging.
func NewFileFilter(logger *slog.Logger) *FileFilter {
	return &FileFilter{logger: logging.NewComponentLogger(logger, "scan")}
}

// FilterVideoFiles returns files under dirs whose base name matches any
// of the glob patterns and whose size exceeds minSize bytes. Patterns
// are evaluated in order with first-match precedence: a file claimed by
// an earlier pattern is never re-evaluated against a later one.
// Exclusions are logged and never abort the scan. When none of the
// directories exist, the error is logged and the result is empty.
func (f *FileFilter) FilterVideoFiles(dirs []string, patterns []string, minSize int64) ([]string, error) {
	if len(patterns) == 0 {
		return nil, errors.New("scan: at least one file pattern required")
	}
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("scan: malformed pattern %q: %w", pattern, err)
		}
	}

	entriesByDir := make(map[string][]os.DirEntry, len(dirs))
	available := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			f.logger.Warn("skipping unreadable directory",
				logging.String("dir", dir),
				logging.Error(err),
			)
			continue
		}
		entriesByDir[dir] = entries
		available++
	}
	if available == 0 {
		f.logger.Error("no matching directories", logging.Int("requested", len(dirs)))
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	var selected []string

	for _, pattern := range patterns {
		for _, dir := range dirs {
			for _, entry := range entriesByDir[dir] {
				if entry.IsDir() {
					continue
				}
				path := filepath.Join(dir, entry.Name())
				if _, claimed := seen[path]; claimed {
					continue
				}
				matched, _ := filepath.Match(pattern, entry.Name())
				if !matched {
					continue
				}
				// First matching pattern claims the file, even when the
				// size check excludes it.
				seen[path] = struct{}{}

				info, err := entry.Info()
				if err != nil {
					f.logger.Warn("skipping unreadable file",
						logging.String("file", path),
						logging.Error(err),
					)
					continue
				}
				if info.Size() <= minSize {
					f.logger.Info("excluding undersized file",
						logging.String("file", path),
						logging.String("size", humanize.IBytes(uint64(info.Size()))),
						logging.String("minimum", humanize.IBytes(uint64(minSize))),
					)
					continue
				}
				selected = append(selected, path)
			}
		}
	}

	sort.Strings(selected)
	return selected, nil
}
