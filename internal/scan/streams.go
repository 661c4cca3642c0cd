package scan

import (
	"context"
	"fmt"
	"log/slog"

	"ripkit/internal/language"
	"ripkit/internal/logging"
	"ripkit/internal/probe"
)

// Prober abstracts media probing for the stream filter.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// StreamFilter selects audio streams from probed files by language.
type StreamFilter struct {
	prober Prober
	logger *slog.Logger

	// maxSameLanguage is the per-language audio stream limit above which
	// a file is skipped rather than guessed at.
	maxSameLanguage int
}

// NewStreamFilter constructs a stream filter.
func NewStreamFilter(prober Prober, maxSameLanguage int, logger *slog.Logger) (*StreamFilter, error) {
	if prober == nil {
		return nil, fmt.Errorf("scan: prober required")
	}
	if maxSameLanguage < 1 {
		return nil, fmt.Errorf("scan: max same-language streams must be at least 1, got %d", maxSameLanguage)
	}
	return &StreamFilter{
		prober:          prober,
		logger:          logging.NewComponentLogger(logger, "scan"),
		maxSameLanguage: maxSameLanguage,
	}, nil
}

// FilterAudioStreams probes each file and returns its audio streams
// matching any of the wanted languages. A file whose same-language
// stream count exceeds the configured limit is skipped with a warning
// and the scan continues; a probe failure likewise skips only that file.
func (f *StreamFilter) FilterAudioStreams(ctx context.Context, files []string, languages []string) ([]probe.MediaStreamInfo, error) {
	if len(languages) == 0 {
		return nil, fmt.Errorf("scan: at least one language required")
	}

	var selected []probe.MediaStreamInfo
	for _, file := range files {
		result, err := f.prober.Probe(ctx, file)
		if err != nil {
			f.logger.Warn("skipping unprobeable file",
				logging.String("file", file),
				logging.Error(err),
			)
			continue
		}

		audio := result.AudioStreams()
		if lang, count := dominantLanguageCount(audio); count > f.maxSameLanguage {
			f.logger.Warn("skipping file with ambiguous audio layout",
				logging.String("file", file),
				logging.String("language", language.DisplayName(lang)),
				logging.Int("streams", count),
				logging.Int("limit", f.maxSameLanguage),
			)
			continue
		}

		for _, stream := range audio {
			if !matchesLanguage(stream.Language, languages) {
				f.logger.Debug("excluding stream by language",
					logging.String("file", file),
					logging.Int("stream", stream.TypeIndex),
					logging.String("language", language.DisplayName(stream.Language)),
				)
				continue
			}
			selected = append(selected, stream)
		}
	}
	return selected, nil
}

func matchesLanguage(streamLanguage string, wanted []string) bool {
	for _, lang := range wanted {
		if language.Matches(streamLanguage, lang) {
			return true
		}
	}
	return false
}

// dominantLanguageCount returns the most frequent audio language and its
// stream count.
func dominantLanguageCount(streams []probe.MediaStreamInfo) (string, int) {
	counts := make(map[string]int, len(streams))
	var topLang string
	top := 0
	for _, stream := range streams {
		lang := language.ToISO3(stream.Language)
		counts[lang]++
		if counts[lang] > top {
			top = counts[lang]
			topLang = lang
		}
	}
	return topLang, top
}
