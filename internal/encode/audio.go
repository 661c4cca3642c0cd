package encode

import (
	"fmt"
	"strconv"
	"strings"
)

// channelBitrates maps an audio channel count to the default encode
// bitrate used when none is set explicitly. Fixed business rule; an
// unrecognized channel count is a hard error, never a default.
var channelBitrates = map[int]string{
	1: "80k",
	2: "160k",
	6: "384k",
	8: "512k",
}

// AudioMode selects between stream copy and re-encoding.
type AudioMode int

const (
	// AudioCopy passes the source stream through untouched.
	AudioCopy AudioMode = iota
	// AudioEncode re-encodes with the configured codec settings.
	AudioEncode
)

// AudioStreamSpec describes the handling of one output audio stream.
// In copy mode Codec, Bitrate, and Channels must be unset; in encode
// mode Codec is required.
type AudioStreamSpec struct {
	InputIndex int
	Title      string
	Mode       AudioMode
	Codec      string
	Bitrate    string
	Channels   int
}

// Validate checks the copy/encode field invariants.
func (s AudioStreamSpec) Validate() error {
	if s.InputIndex < 0 {
		return fmt.Errorf("audio spec: input index must not be negative")
	}
	switch s.Mode {
	case AudioCopy:
		if s.Codec != "" || s.Bitrate != "" || s.Channels != 0 {
			return fmt.Errorf("audio spec: copy mode must not set codec, bitrate, or channels")
		}
	case AudioEncode:
		if strings.TrimSpace(s.Codec) == "" {
			return fmt.Errorf("audio spec: encode mode requires a codec")
		}
	default:
		return fmt.Errorf("audio spec: unknown mode %d", s.Mode)
	}
	return nil
}

// resolveBitrate returns the explicit bitrate, or the channel-count
// default when only a channel count is given.
func (s AudioStreamSpec) resolveBitrate() (string, error) {
	if s.Bitrate != "" {
		return s.Bitrate, nil
	}
	if s.Channels == 0 {
		return "", nil
	}
	bitrate, ok := channelBitrates[s.Channels]
	if !ok {
		return "", fmt.Errorf("audio spec: no default bitrate for %d channels", s.Channels)
	}
	return bitrate, nil
}

// Args returns the FFmpeg arguments for this stream at output position
// out: the input mapping, codec flags, and a title metadata tag.
func (s AudioStreamSpec) Args(out int) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	args := make([]string, 0, 12)
	args = append(args, "-map", fmt.Sprintf("0:a:%d", s.InputIndex))

	if s.Mode == AudioCopy {
		args = append(args, fmt.Sprintf("-c:a:%d", out), "copy")
	} else {
		args = append(args, fmt.Sprintf("-c:a:%d", out), s.Codec)
		bitrate, err := s.resolveBitrate()
		if err != nil {
			return nil, err
		}
		if bitrate != "" {
			args = append(args, fmt.Sprintf("-b:a:%d", out), bitrate)
		}
		if s.Channels > 0 {
			args = append(args, fmt.Sprintf("-ac:a:%d", out), strconv.Itoa(s.Channels))
		}
	}

	if s.Title != "" {
		args = append(args, fmt.Sprintf("-metadata:s:a:%d", out), "title="+s.Title)
	}
	return args, nil
}

// AudioArgs builds the combined argument list for an ordered set of
// audio stream specs. Any invalid spec fails the whole build.
func AudioArgs(specs []AudioStreamSpec) ([]string, error) {
	args := make([]string, 0, len(specs)*8)
	for out, spec := range specs {
		streamArgs, err := spec.Args(out)
		if err != nil {
			return nil, fmt.Errorf("audio stream %d: %w", out, err)
		}
		args = append(args, streamArgs...)
	}
	return args, nil
}
