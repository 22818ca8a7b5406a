package debug

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler records timings for named sections.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section. The last
// maxSamples timings are kept in a ring for percentiles.
type Measurement struct {
	Name  string
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
	Last  time.Duration

	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a new profiler with the specified sample buffer size.
func NewProfiler(maxSamples int) *Profiler {
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   max(maxSamples, 1),
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Record stores a timing measurement.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	if !p.enabled.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			Name:    name,
			Min:     elapsed,
			Max:     elapsed,
			samples: make([]time.Duration, 0, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	m.Min = min(m.Min, elapsed)
	m.Max = max(m.Max, elapsed)

	if len(m.samples) < p.maxSamples {
		m.samples = append(m.samples, elapsed)
	} else {
		m.samples[m.sampleIndex] = elapsed
		m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
	}
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return m.clone(), true
}

// GetAllMeasurements returns copies of all measurements.
func (p *Profiler) GetAllMeasurements() map[string]Measurement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]Measurement, len(p.measurements))
	for k, v := range p.measurements {
		result[k] = v.clone()
	}
	return result
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements = make(map[string]*Measurement)
}

// Report generates a performance report, sections sorted by name.
func (p *Profiler) Report() string {
	measurements := p.GetAllMeasurements()
	if len(measurements) == 0 {
		return "No measurements recorded"
	}

	names := make([]string, 0, len(measurements))
	for name := range measurements {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Performance Report:\n")
	for _, name := range names {
		m := measurements[name]
		fmt.Fprintf(&sb, "%s: count=%d avg=%v min=%v max=%v p99=%v\n",
			name, m.Count, m.Average(), m.Min, m.Max, m.Percentile(99))
	}
	return sb.String()
}

func (m *Measurement) clone() Measurement {
	c := *m
	c.samples = slices.Clone(m.samples)
	return c
}

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Percentile returns the p-th percentile (0-100) of the retained samples.
func (m Measurement) Percentile(p float64) time.Duration {
	if len(m.samples) == 0 {
		return 0
	}
	sorted := slices.Clone(m.samples)
	slices.Sort(sorted)
	p = min(max(p, 0), 100)
	return sorted[int(float64(len(sorted)-1)*p/100.0)]
}

// BlockProfiler times process calls against the real-time budget of the
// block they rendered.
type BlockProfiler struct {
	*Profiler
	sampleRate float64
	loadSum    float64
	loadMax    float64
	blocks     uint64
	mu         sync.Mutex
}

// BlockSection is the measurement name used by BlockProfiler.
const BlockSection = "ProcessAudio"

// NewBlockProfiler creates a profiler for audio blocks at sampleRate.
func NewBlockProfiler(sampleRate float64) *BlockProfiler {
	return &BlockProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
	}
}

// StartBlock begins timing one block of numSamples.
func (b *BlockProfiler) StartBlock(numSamples int) func() {
	if !b.IsEnabled() || numSamples <= 0 || b.sampleRate <= 0 {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		b.RecordBlock(numSamples, elapsed)
	}
}

// RecordBlock stores the time spent on a block of numSamples.
func (b *BlockProfiler) RecordBlock(numSamples int, elapsed time.Duration) {
	b.Record(BlockSection, elapsed)

	budget := time.Duration(float64(numSamples) / b.sampleRate * float64(time.Second))
	if budget <= 0 {
		return
	}
	load := float64(elapsed) / float64(budget) * 100

	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocks++
	b.loadSum += load
	b.loadMax = max(b.loadMax, load)
}

// Load returns the average and worst block time as a percentage of each
// block's duration.
func (b *BlockProfiler) Load() (avg, worst float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.blocks == 0 {
		return 0, 0
	}
	return b.loadSum / float64(b.blocks), b.loadMax
}

// AudioReport generates an audio-specific performance report.
func (b *BlockProfiler) AudioReport() string {
	avg, worst := b.Load()
	return fmt.Sprintf("%sSample Rate: %.0f Hz\nCPU Load: avg %.2f%% worst %.2f%%\n",
		b.Report(), b.sampleRate, avg, worst)
}
