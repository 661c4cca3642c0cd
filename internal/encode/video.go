package encode

import (
	"fmt"
	"strings"
)

// EncodingConfig describes how to encode the video stream of one
// conversion request. Constructed once, immutable, consumed to produce
// an argument list.
type EncodingConfig struct {
	codec   string
	rate    RateControl
	preset  string
	profile string
	level   string
}

// EncodingOption customizes optional EncodingConfig fields.
type EncodingOption func(*EncodingConfig)

// WithProfile sets the encoder profile flag (e.g. "main10").
func WithProfile(profile string) EncodingOption {
	return func(c *EncodingConfig) { c.profile = strings.TrimSpace(profile) }
}

// WithLevel sets the encoder level flag (e.g. "4.1").
func WithLevel(level string) EncodingOption {
	return func(c *EncodingConfig) { c.level = strings.TrimSpace(level) }
}

// NewEncodingConfig validates and builds a video encoding config.
func NewEncodingConfig(codec string, rate RateControl, preset string, opts ...EncodingOption) (EncodingConfig, error) {
	codec = strings.TrimSpace(codec)
	if codec == "" {
		return EncodingConfig{}, fmt.Errorf("encoding config requires a codec")
	}
	if !rate.valid() {
		return EncodingConfig{}, fmt.Errorf("encoding config requires a rate control")
	}
	cfg := EncodingConfig{
		codec:  codec,
		rate:   rate,
		preset: strings.TrimSpace(preset),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, nil
}

// Codec returns the configured encoder name.
func (c EncodingConfig) Codec() string { return c.codec }

// Rate returns the configured rate control.
func (c EncodingConfig) Rate() RateControl { return c.rate }

// Args returns the FFmpeg video arguments in fixed order: codec, preset,
// rate control, then the optional profile and level flags. Absent
// optionals omit their flags entirely.
func (c EncodingConfig) Args() []string {
	args := make([]string, 0, 10)
	args = append(args, "-c:v", c.codec)
	if c.preset != "" {
		args = append(args, "-preset", c.preset)
	}
	args = append(args, c.rate.args()...)
	if c.profile != "" {
		args = append(args, "-profile:v", c.profile)
	}
	if c.level != "" {
		args = append(args, "-level", c.level)
	}
	return args
}

// String summarizes the config for logs: "libx265 crf 20 preset=slow".
func (c EncodingConfig) String() string {
	var sb strings.Builder
	sb.WriteString(c.codec)
	sb.WriteByte(' ')
	sb.WriteString(c.rate.String())
	if c.preset != "" {
		fmt.Fprintf(&sb, " preset=%s", c.preset)
	}
	if c.profile != "" {
		fmt.Fprintf(&sb, " profile=%s", c.profile)
	}
	if c.level != "" {
		fmt.Fprintf(&sb, " level=%s", c.level)
	}
	return sb.String()
}
