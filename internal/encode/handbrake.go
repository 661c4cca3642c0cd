package encode

import (
	"fmt"
	"strconv"
	"strings"
)

// handbrakeEncoders maps FFmpeg codec names to HandBrakeCLI encoder
// names. Unlisted codecs pass through unchanged.
var handbrakeEncoders = map[string]string{
	"libx264":   "x264",
	"libx265":   "x265",
	"libsvtav1": "svt_av1",
}

// channelMixdowns maps a channel count to the HandBrake mixdown name.
// Like channelBitrates, an unrecognized count is a hard error.
var channelMixdowns = map[int]string{
	1: "mono",
	2: "stereo",
	6: "5point1",
	8: "7point1",
}

// HandBrakeArgs assembles the HandBrakeCLI argument list for one
// conversion from the same config types the FFmpeg builder consumes.
// CQP mode is rejected: HandBrakeCLI exposes no constant-quantizer flag.
func HandBrakeArgs(input, output string, video EncodingConfig, audio []AudioStreamSpec) ([]string, error) {
	args := make([]string, 0, 24)
	args = append(args, "--input", input, "--output", output, "--format", "av_mkv")

	encoder := video.codec
	if mapped, ok := handbrakeEncoders[encoder]; ok {
		encoder = mapped
	}
	args = append(args, "--encoder", encoder)
	if video.preset != "" {
		args = append(args, "--encoder-preset", video.preset)
	}

	switch video.rate.mode {
	case ModeCRF:
		args = append(args, "--quality", strconv.Itoa(video.rate.quality))
	case ModeVBR:
		kbps, err := bitrateKbps(video.rate.bitrate)
		if err != nil {
			return nil, err
		}
		args = append(args, "--vb", strconv.Itoa(kbps))
	case ModeCQP:
		return nil, fmt.Errorf("handbrake: cqp rate control is not supported")
	}

	if video.profile != "" {
		args = append(args, "--encoder-profile", video.profile)
	}
	if video.level != "" {
		args = append(args, "--encoder-level", video.level)
	}

	audioArgs, err := handbrakeAudioArgs(audio)
	if err != nil {
		return nil, err
	}
	args = append(args, audioArgs...)

	args = append(args, "--markers")
	return args, nil
}

func handbrakeAudioArgs(specs []AudioStreamSpec) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	tracks := make([]string, 0, len(specs))
	encoders := make([]string, 0, len(specs))
	bitrates := make([]string, 0, len(specs))
	mixdowns := make([]string, 0, len(specs))
	names := make([]string, 0, len(specs))
	anyEncode := false

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("audio stream %d: %w", i, err)
		}
		// HandBrake track selection is 1-based.
		tracks = append(tracks, strconv.Itoa(spec.InputIndex+1))
		names = append(names, spec.Title)

		if spec.Mode == AudioCopy {
			encoders = append(encoders, "copy")
			bitrates = append(bitrates, "")
			mixdowns = append(mixdowns, "")
			continue
		}

		anyEncode = true
		encoders = append(encoders, spec.Codec)
		bitrate, err := spec.resolveBitrate()
		if err != nil {
			return nil, fmt.Errorf("audio stream %d: %w", i, err)
		}
		kbps := ""
		if bitrate != "" {
			value, err := bitrateKbps(bitrate)
			if err != nil {
				return nil, fmt.Errorf("audio stream %d: %w", i, err)
			}
			kbps = strconv.Itoa(value)
		}
		bitrates = append(bitrates, kbps)

		mixdown := ""
		if spec.Channels > 0 {
			var ok bool
			mixdown, ok = channelMixdowns[spec.Channels]
			if !ok {
				return nil, fmt.Errorf("audio stream %d: no mixdown for %d channels", i, spec.Channels)
			}
		}
		mixdowns = append(mixdowns, mixdown)
	}

	args := []string{
		"--audio", strings.Join(tracks, ","),
		"--aencoder", strings.Join(encoders, ","),
	}
	if anyEncode {
		args = append(args, "--ab", strings.Join(bitrates, ","))
		args = append(args, "--mixdown", strings.Join(mixdowns, ","))
	}
	if anyNonEmpty(names) {
		args = append(args, "--aname", strings.Join(names, ","))
	}
	return args, nil
}

// bitrateKbps converts an FFmpeg-style bitrate ("384k", "4M", "192000")
// to kilobits per second.
func bitrateKbps(bitrate string) (int, error) {
	trimmed := strings.TrimSpace(strings.ToLower(bitrate))
	if trimmed == "" {
		return 0, fmt.Errorf("empty bitrate")
	}
	multiplier := 1
	switch {
	case strings.HasSuffix(trimmed, "m"):
		multiplier = 1000
		trimmed = strings.TrimSuffix(trimmed, "m")
	case strings.HasSuffix(trimmed, "k"):
		trimmed = strings.TrimSuffix(trimmed, "k")
	default:
		// Bare numbers are bits per second.
		value, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("parse bitrate %q: %w", bitrate, err)
		}
		return value / 1000, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse bitrate %q: %w", bitrate, err)
	}
	return value * multiplier, nil
}

func anyNonEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
