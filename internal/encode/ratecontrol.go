package encode

import (
	"fmt"
	"strconv"
	"strings"
)

// RateMode identifies the encoder rate-control strategy.
type RateMode string

const (
	// ModeVBR targets an average bitrate.
	ModeVBR RateMode = "vbr"
	// ModeCRF targets a constant quality factor.
	ModeCRF RateMode = "crf"
	// ModeCQP targets a constant quantizer.
	ModeCQP RateMode = "cqp"
)

// RateControl pairs a rate-control mode with exactly the value that mode
// requires. Construct through VBR, CRF, CQP, or ParseRateControl; the
// zero value is invalid.
type RateControl struct {
	mode    RateMode
	bitrate string
	quality int
}

// VBR returns a bitrate-targeted rate control, e.g. VBR("4000k").
func VBR(bitrate string) (RateControl, error) {
	bitrate = strings.TrimSpace(bitrate)
	if bitrate == "" {
		return RateControl{}, fmt.Errorf("vbr rate control requires a bitrate")
	}
	return RateControl{mode: ModeVBR, bitrate: bitrate}, nil
}

// CRF returns a quality-targeted rate control. The conventional x264/x265
// range is 0-51 but values are passed through unvalidated, matching the
// encoder's own acceptance rules.
func CRF(quality int) RateControl {
	return RateControl{mode: ModeCRF, quality: quality}
}

// CQP returns a quantizer-targeted rate control. Values pass through
// unvalidated, like CRF.
func CQP(quality int) RateControl {
	return RateControl{mode: ModeCQP, quality: quality}
}

// ParseRateControl builds a RateControl from configuration strings.
// Unknown modes are rejected here, at construction time.
func ParseRateControl(mode string, quality int, bitrate string) (RateControl, error) {
	switch RateMode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeVBR:
		return VBR(bitrate)
	case ModeCRF:
		return CRF(quality), nil
	case ModeCQP:
		return CQP(quality), nil
	default:
		return RateControl{}, fmt.Errorf("unknown rate-control mode %q", mode)
	}
}

// Mode returns the rate-control mode.
func (r RateControl) Mode() RateMode { return r.mode }

func (r RateControl) valid() bool { return r.mode != "" }

// args returns the FFmpeg flags for this rate control.
func (r RateControl) args() []string {
	switch r.mode {
	case ModeVBR:
		return []string{"-b:v", r.bitrate}
	case ModeCRF:
		return []string{"-crf", strconv.Itoa(r.quality)}
	case ModeCQP:
		return []string{"-qp", strconv.Itoa(r.quality)}
	}
	return nil
}

// String describes the rate control, e.g. "crf 20" or "vbr 4000k".
func (r RateControl) String() string {
	switch r.mode {
	case ModeVBR:
		return fmt.Sprintf("%s %s", r.mode, r.bitrate)
	case ModeCRF, ModeCQP:
		return fmt.Sprintf("%s %d", r.mode, r.quality)
	}
	return "invalid"
}
