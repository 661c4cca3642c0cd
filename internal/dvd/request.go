package dvd

import (
	"errors"
	"strings"
)

// Request describes one DVD processing run.
type Request struct {
	// Source is the directory holding ripped video files.
	Source string
	// DestinationDir is the library root the show directory is created
	// under.
	DestinationDir string
	// Show is the series name used for metadata lookup and file naming.
	Show string
	// Season is the season number of the ripped disc.
	Season int

	// FilePatterns and MinFileSize select source files; empty values
	// fall back to the configured scan defaults.
	FilePatterns []string
	MinFileSize  int64

	// Optional phases, evaluated once at the start of the run.
	ExtractChapters bool
	ExtractCaptions bool
	Convert         bool
}

// Validate checks the request fields needed before any phase runs.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errors.New("source directory required")
	}
	if strings.TrimSpace(r.DestinationDir) == "" {
		return errors.New("destination directory required")
	}
	if strings.TrimSpace(r.Show) == "" {
		return errors.New("show name required")
	}
	if r.Season <= 0 {
		return errors.New("season must be positive")
	}
	return nil
}

// DirectoryStructure holds the destination paths created for a run.
type DirectoryStructure struct {
	RootDir     string
	SeasonDir   string
	ChaptersDir string
	CaptionsDir string
}
