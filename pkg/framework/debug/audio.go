package debug

import (
	"fmt"
	"math"
)

// AudioAnalyzer provides utilities for analyzing audio buffers.
type AudioAnalyzer struct {
	clippingThreshold float32
	dcThreshold       float32
	silenceThreshold  float32
}

// NewAudioAnalyzer creates a new audio analyzer with default settings.
func NewAudioAnalyzer() *AudioAnalyzer {
	return &AudioAnalyzer{
		clippingThreshold: 0.99,
		dcThreshold:       0.01,
		silenceThreshold:  0.0001,
	}
}

// AnalysisResult contains the results of audio buffer analysis.
type AnalysisResult struct {
	Peak           float32
	RMS            float32
	DC             float32
	Clipping       bool
	ClippedSamples int
	Silent         bool
	HasNaN         bool
	NaNCount       int
	ZeroCrossings  int
}

// Analyze performs comprehensive analysis on an audio buffer. NaN samples
// are counted and excluded from the other statistics.
func (a *AudioAnalyzer) Analyze(buffer []float32) AnalysisResult {
	result := AnalysisResult{}

	if len(buffer) == 0 {
		return result
	}

	var sum, sumSquares float64
	var lastSample float32

	for i, sample := range buffer {
		if math.IsNaN(float64(sample)) {
			result.HasNaN = true
			result.NaNCount++
			continue
		}

		absSample := float32(math.Abs(float64(sample)))
		result.Peak = max(result.Peak, absSample)

		if absSample >= a.clippingThreshold {
			result.Clipping = true
			result.ClippedSamples++
		}

		sum += float64(sample)
		sumSquares += float64(sample) * float64(sample)

		if i > 0 && ((lastSample < 0 && sample >= 0) || (lastSample >= 0 && sample < 0)) {
			result.ZeroCrossings++
		}
		lastSample = sample
	}

	result.RMS = float32(math.Sqrt(sumSquares / float64(len(buffer))))
	result.DC = float32(sum / float64(len(buffer)))
	result.Silent = result.RMS < a.silenceThreshold

	return result
}

// CheckBuffer performs basic sanity checks on an audio buffer.
func (a *AudioAnalyzer) CheckBuffer(buffer []float32, name string) []string {
	var issues []string

	result := a.Analyze(buffer)

	if result.HasNaN {
		issues = append(issues, fmt.Sprintf("%s: Contains %d NaN values", name, result.NaNCount))
	}

	if result.Clipping {
		issues = append(issues, fmt.Sprintf("%s: Clipping detected (%d samples)", name, result.ClippedSamples))
	}

	if math.Abs(float64(result.DC)) > float64(a.dcThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, result.DC))
	}

	if result.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: Peak exceeds 1.0 (%.3f)", name, result.Peak))
	}

	return issues
}

// Meter accumulates peak and RMS over many blocks of one channel.
type Meter struct {
	peak       float32
	sumSquares float64
	samples    int
	nanCount   int
}

// Add folds a block into the running statistics.
func (m *Meter) Add(buffer []float32) {
	for _, sample := range buffer {
		if math.IsNaN(float64(sample)) {
			m.nanCount++
			continue
		}
		m.peak = max(m.peak, float32(math.Abs(float64(sample))))
		m.sumSquares += float64(sample) * float64(sample)
	}
	m.samples += len(buffer)
}

// Peak returns the largest absolute sample seen.
func (m *Meter) Peak() float32 { return m.peak }

// RMS returns the RMS level over every sample seen.
func (m *Meter) RMS() float32 {
	if m.samples == 0 {
		return 0
	}
	return float32(math.Sqrt(m.sumSquares / float64(m.samples)))
}

// Samples returns the number of samples seen.
func (m *Meter) Samples() int { return m.samples }

// NaNCount returns the number of NaN samples seen.
func (m *Meter) NaNCount() int { return m.nanCount }

// Reset clears the statistics.
func (m *Meter) Reset() { *m = Meter{} }
