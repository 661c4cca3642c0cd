package probe

import "strconv"

// MediaStreamInfo describes a single stream in a probed file. Read-only
// after creation.
type MediaStreamInfo struct {
	SourceFile   string
	GlobalIndex  int
	TypeIndex    int
	CodecType    string
	CodecName    string
	Language     string
	Title        string
	Channels     int
	Dispositions map[string]bool
}

// IsDefault reports whether the stream carries the default disposition.
func (s MediaStreamInfo) IsDefault() bool { return s.Dispositions["default"] }

// IsForced reports whether the stream carries the forced disposition.
func (s MediaStreamInfo) IsForced() bool { return s.Dispositions["forced"] }

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
	Tags       map[string]string
}

// Chapter holds one chapter marker from ffprobe's chapter section.
type Chapter struct {
	ID    int64
	Start float64
	End   float64
	Title string
}

// Result is the fully parsed output of a single ffprobe call.
type Result struct {
	Format   FormatInfo
	Streams  []MediaStreamInfo
	Chapters []Chapter
}

// AudioStreams returns the audio streams in source order.
func (r *Result) AudioStreams() []MediaStreamInfo {
	return r.streamsOfType("audio")
}

// SubtitleStreams returns the subtitle streams in source order.
func (r *Result) SubtitleStreams() []MediaStreamInfo {
	return r.streamsOfType("subtitle")
}

func (r *Result) streamsOfType(codecType string) []MediaStreamInfo {
	var out []MediaStreamInfo
	for _, s := range r.Streams {
		if s.CodecType == codecType {
			out = append(out, s)
		}
	}
	return out
}

// raw ffprobe JSON shapes; numeric fields arrive as strings.

type ffprobeOutput struct {
	Format   ffprobeFormat    `json:"format"`
	Streams  []ffprobeStream  `json:"streams"`
	Chapters []ffprobeChapter `json:"chapters"`
}

type ffprobeFormat struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Size       string            `json:"size"`
	BitRate    string            `json:"bit_rate"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecType   string            `json:"codec_type"`
	CodecName   string            `json:"codec_name"`
	Channels    int               `json:"channels"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

type ffprobeChapter struct {
	ID        int64             `json:"id"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Tags      map[string]string `json:"tags"`
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt64(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
