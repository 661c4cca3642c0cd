package encode

import "fmt"

// AudioTrackMapping selects a source audio track for a remux without
// re-encoding.
type AudioTrackMapping struct {
	SourceIndex int
	Title       string
	Default     bool
}

// SubtitleTrackMapping selects a source subtitle track for a remux.
type SubtitleTrackMapping struct {
	SourceIndex int
	Language    string
	Default     bool
	Forced      bool
}

// RemuxArgs builds the FFmpeg arguments for repackaging the first video
// stream plus the given audio and subtitle tracks into a new container
// without re-encoding.
func RemuxArgs(audio []AudioTrackMapping, subtitles []SubtitleTrackMapping) []string {
	args := make([]string, 0, 8+len(audio)*6+len(subtitles)*6)
	args = append(args, "-map", "0:v:0", "-c:v", "copy")

	for out, track := range audio {
		args = append(args, "-map", fmt.Sprintf("0:a:%d", track.SourceIndex))
		args = append(args, fmt.Sprintf("-c:a:%d", out), "copy")
		if track.Title != "" {
			args = append(args, fmt.Sprintf("-metadata:s:a:%d", out), "title="+track.Title)
		}
		args = append(args, fmt.Sprintf("-disposition:a:%d", out), dispositionValue(track.Default, false))
	}

	for out, track := range subtitles {
		args = append(args, "-map", fmt.Sprintf("0:s:%d", track.SourceIndex))
		args = append(args, fmt.Sprintf("-c:s:%d", out), "copy")
		if track.Language != "" {
			args = append(args, fmt.Sprintf("-metadata:s:s:%d", out), "language="+track.Language)
		}
		args = append(args, fmt.Sprintf("-disposition:s:%d", out), dispositionValue(track.Default, track.Forced))
	}

	args = append(args, "-map_metadata", "0", "-map_chapters", "0")
	return args
}

func dispositionValue(isDefault, isForced bool) string {
	switch {
	case isDefault && isForced:
		return "default+forced"
	case isDefault:
		return "default"
	case isForced:
		return "forced"
	default:
		return "0"
	}
}
