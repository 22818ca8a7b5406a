// Package pan provides stereo panning operations.
//
// Positions are normalized to [0, 1] with 0.5 at center. The left gain grows
// with the position and the right gain shrinks, so 0.0 mutes the left channel
// and 1.0 mutes the right one. Gains are applied in place to a StereoBuffer
// once per block.
package pan

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nla/simplepanner/pkg/dsp/gain"
)

var (
	// ErrOutOfRange is returned for positions outside [0, 1] or NaN.
	ErrOutOfRange = errors.New("pan: position out of range [0, 1]")
	// ErrLengthMismatch is returned when the two channels differ in length.
	ErrLengthMismatch = errors.New("pan: left and right channel lengths differ")
	// ErrEmptyBuffer is returned for a block with no samples.
	ErrEmptyBuffer = errors.New("pan: empty buffer")
)

// Center is the position where both channels pass at unity.
const Center float32 = 0.5

// Gains holds the per-channel multipliers for one block.
type Gains struct {
	Left  float32
	Right float32
}

// Unity leaves both channels untouched.
var Unity = Gains{Left: 1, Right: 1}

// StereoBuffer is a pair of per-channel sample slices, processed in place.
type StereoBuffer struct {
	Left  []float32
	Right []float32
}

// Len returns the number of frames, or -1 if the channels disagree.
func (b StereoBuffer) Len() int {
	if len(b.Left) != len(b.Right) {
		return -1
	}
	return len(b.Left)
}

// Check reports whether the buffer can be processed.
func (b StereoBuffer) Check() error {
	switch n := b.Len(); {
	case n < 0:
		return ErrLengthMismatch
	case n == 0:
		return ErrEmptyBuffer
	}
	return nil
}

// ComputeGains implements the constant-gain pan law.
//
// Below center the left gain rises from 0 to unity while the right stays at
// unity; above center the mirror image holds. Both channels are at unity
// at 0.5, so there is no center attenuation. The input is not validated.
func ComputeGains(pos float32) Gains {
	return Gains{
		Left:  min(pos, Center) * 2,
		Right: (1 - max(pos, Center)) * 2,
	}
}

// Validate returns ErrOutOfRange unless pos is within [0, 1].
func Validate(pos float32) error {
	if math.IsNaN(float64(pos)) || pos < 0 || pos > 1 {
		return ErrOutOfRange
	}
	return nil
}

// Apply scales every sample of buf by g. The same pair is used for the whole
// block.
func Apply(buf StereoBuffer, g Gains) error {
	if err := buf.Check(); err != nil {
		return err
	}
	gain.ApplyBuffer(buf.Left, g.Left)
	gain.ApplyBuffer(buf.Right, g.Right)
	return nil
}

// ApplyRamp interpolates linearly from one gain pair to another across the
// block. The first sample uses from; the last sample uses to.
func ApplyRamp(buf StereoBuffer, from, to Gains) error {
	if err := buf.Check(); err != nil {
		return err
	}
	gain.Fade(buf.Left, from.Left, to.Left)
	gain.Fade(buf.Right, from.Right, to.Right)
	return nil
}

// Law represents different panning laws
type Law int

const (
	// UnityCenter keeps both channels at unity at center and only
	// attenuates the far channel.
	UnityCenter Law = iota
	// Linear crossfades gains linearly (each channel at 0.5 at center)
	Linear
	// ConstantPower uses sine/cosine panning (-3dB at center)
	ConstantPower
)

var lawNames = [...]string{
	UnityCenter:   "unity",
	Linear:        "linear",
	ConstantPower: "constant-power",
}

// String returns the law's canonical name.
func (l Law) String() string {
	if l < 0 || int(l) >= len(lawNames) {
		return "unknown"
	}
	return lawNames[l]
}

// Laws returns all supported laws in declaration order.
func Laws() []Law {
	return []Law{UnityCenter, Linear, ConstantPower}
}

// ParseLaw resolves a law by name. Matching is case-insensitive and accepts a
// few common aliases.
func ParseLaw(s string) (Law, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unity", "unity-center", "constant-gain":
		return UnityCenter, nil
	case "linear":
		return Linear, nil
	case "constant-power", "equal-power", "power", "sincos":
		return ConstantPower, nil
	}
	return UnityCenter, fmt.Errorf("pan: unknown law %q", s)
}

// Gains returns the channel gains for pos under this law.
func (l Law) Gains(pos float32) Gains {
	switch l {
	case Linear:
		return linearPan(pos)
	case ConstantPower:
		return constantPowerPan(pos)
	default:
		return ComputeGains(pos)
	}
}

// linearPan implements simple linear panning.
func linearPan(pos float32) Gains {
	return Gains{Left: pos, Right: 1 - pos}
}

// constantPowerPan implements equal power panning using sine/cosine.
func constantPowerPan(pos float32) Gains {
	angle := float64(pos) * math.Pi / 2
	return Gains{
		Left:  float32(math.Sin(angle)),
		Right: float32(math.Cos(angle)),
	}
}
