package dvd

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"

	"ripkit/internal/fileutil"
	"ripkit/internal/tvdb"
)

var titleCaser = cases.Title(xlang.English)

// ShowTitle normalizes a show name for directory and file naming:
// collapsed whitespace, title case.
func ShowTitle(raw string) string {
	fields := strings.Fields(raw)
	return titleCaser.String(strings.Join(fields, " "))
}

// EpisodeFileName builds the output name "Show - S01E02 - Title.ext"
// with filesystem-hostile characters stripped.
func EpisodeFileName(show string, episode tvdb.Episode, ext string) string {
	title := strings.TrimSpace(episode.Title)
	if title == "" {
		title = fmt.Sprintf("Episode %d", episode.EpisodeNumber)
	}
	name := fmt.Sprintf("%s - S%02dE%02d - %s",
		show, episode.SeasonNumber, episode.EpisodeNumber, title)
	return fileutil.SanitizeFileName(name) + ext
}
