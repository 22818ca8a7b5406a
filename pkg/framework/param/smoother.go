package param

import (
	"math"
)

// SmoothingType defines different parameter smoothing algorithms.
type SmoothingType int

const (
	// LinearSmoothing moves toward the target in equal steps
	LinearSmoothing SmoothingType = iota
	// ExponentialSmoothing uses a one-pole filter
	ExponentialSmoothing
)

// Smoother provides parameter smoothing to prevent zipper noise.
//
// For LinearSmoothing the rate is the ramp length in samples; for
// ExponentialSmoothing it is the one-pole coefficient (0.9-0.9999).
type Smoother struct {
	smoothingType SmoothingType
	current       float64
	target        float64
	rate          float64
	threshold     float64
	step          float64
	remaining     int // linear ramp samples left
	isSmoothing   bool
}

// NewSmoother creates a new parameter smoother.
func NewSmoother(smoothingType SmoothingType, rate float64) *Smoother {
	return &Smoother{
		smoothingType: smoothingType,
		rate:          rate,
		threshold:     0.0001,
	}
}

// SetTarget sets the target value for smoothing.
func (s *Smoother) SetTarget(target float64) {
	if math.Abs(target-s.target) < s.threshold && !s.isSmoothing {
		return
	}

	s.target = target
	if s.rate <= 0 || (s.smoothingType == LinearSmoothing && s.rate < 1) {
		s.current = target
		s.isSmoothing = false
		return
	}

	s.isSmoothing = s.current != target
	if s.smoothingType == LinearSmoothing {
		s.remaining = int(math.Ceil(s.rate))
		s.step = (target - s.current) / float64(s.remaining)
	}
}

// Next advances one sample and returns the smoothed value.
func (s *Smoother) Next() float64 {
	return s.Skip(1)
}

// Skip advances n samples at once and returns the value reached. It is
// equivalent to calling Next n times.
func (s *Smoother) Skip(n int) float64 {
	if !s.isSmoothing || n <= 0 {
		return s.current
	}

	switch s.smoothingType {
	case ExponentialSmoothing:
		s.current = s.target + (s.current-s.target)*math.Pow(s.rate, float64(n))
		if math.Abs(s.current-s.target) < s.threshold {
			s.finish()
		}

	case LinearSmoothing:
		s.remaining -= n
		if s.remaining <= 0 {
			s.finish()
		} else {
			s.current = s.target - s.step*float64(s.remaining)
		}
	}

	return s.current
}

func (s *Smoother) finish() {
	s.current = s.target
	s.isSmoothing = false
}

// Current returns the value without advancing.
func (s *Smoother) Current() float64 {
	return s.current
}

// IsSmoothing returns true if the smoother is currently smoothing.
func (s *Smoother) IsSmoothing() bool {
	return s.isSmoothing
}

// Reset jumps to value with no ramp.
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
	s.step = 0
	s.remaining = 0
	s.isSmoothing = false
}

// SetRate updates the smoothing rate. A ramp in progress keeps its step.
func (s *Smoother) SetRate(rate float64) {
	s.rate = rate
}

// SetTime sets the rate so that a ramp takes roughly ms milliseconds at the
// given sample rate. For exponential smoothing the value falls by 60 dB in
// that time.
func (s *Smoother) SetTime(sampleRate, ms float64) {
	samples := sampleRate * ms / 1000.0
	if samples <= 0 {
		s.SetRate(0)
		return
	}
	if s.smoothingType == ExponentialSmoothing {
		s.SetRate(math.Exp(-6.908 / samples))
		return
	}
	s.SetRate(samples)
}

// SetThreshold sets the threshold for considering smoothing complete.
func (s *Smoother) SetThreshold(threshold float64) {
	s.threshold = threshold
}
