package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ripkit/internal/language"
	"ripkit/internal/logging"
	"ripkit/internal/toolexec"
)

// Prober runs ffprobe against media files.
type Prober struct {
	binary string
	runner toolexec.Runner
	logger *slog.Logger
}

// New constructs a Prober. The runner is injectable for tests.
func New(binary string, runner toolexec.Runner, logger *slog.Logger) (*Prober, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("probe: ffprobe binary required")
	}
	if runner == nil {
		return nil, errors.New("probe: runner required")
	}
	return &Prober{
		binary: binary,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "probe"),
	}, nil
}

// Probe runs ffprobe with format, stream, and chapter output enabled and
// parses the JSON result.
func (p *Prober) Probe(ctx context.Context, path string) (*Result, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("probe: file path required")
	}

	result, err := p.runner.Run(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-show_chapters",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	parsed, err := Parse(path, []byte(result.Stdout))
	if err != nil {
		return nil, err
	}

	p.logger.Debug("probed file",
		logging.String("file", path),
		logging.Int("streams", len(parsed.Streams)),
		logging.Int("chapters", len(parsed.Chapters)),
	)
	return parsed, nil
}

// Parse decodes raw ffprobe JSON output for the given source file.
func Parse(sourceFile string, data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe output for %s: %w", sourceFile, err)
	}

	result := &Result{
		Format: FormatInfo{
			Filename:   raw.Format.Filename,
			FormatName: raw.Format.FormatName,
			Duration:   parseFloat(raw.Format.Duration),
			Size:       parseInt64(raw.Format.Size),
			BitRate:    parseInt64(raw.Format.BitRate),
			Tags:       raw.Format.Tags,
		},
	}

	typeIndexes := make(map[string]int, 4)
	result.Streams = make([]MediaStreamInfo, 0, len(raw.Streams))
	for _, s := range raw.Streams {
		typeIndex := typeIndexes[s.CodecType]
		typeIndexes[s.CodecType] = typeIndex + 1

		dispositions := make(map[string]bool, len(s.Disposition))
		for name, value := range s.Disposition {
			if value != 0 {
				dispositions[name] = true
			}
		}

		result.Streams = append(result.Streams, MediaStreamInfo{
			SourceFile:   sourceFile,
			GlobalIndex:  s.Index,
			TypeIndex:    typeIndex,
			CodecType:    s.CodecType,
			CodecName:    s.CodecName,
			Language:     language.ExtractFromTags(s.Tags),
			Title:        s.Tags["title"],
			Channels:     s.Channels,
			Dispositions: dispositions,
		})
	}

	result.Chapters = make([]Chapter, 0, len(raw.Chapters))
	for _, c := range raw.Chapters {
		result.Chapters = append(result.Chapters, Chapter{
			ID:    c.ID,
			Start: parseFloat(c.StartTime),
			End:   parseFloat(c.EndTime),
			Title: c.Tags["title"],
		})
	}

	return result, nil
}
