package plugin

import (
	"github.com/nla/simplepanner/pkg/framework/bus"
	"github.com/nla/simplepanner/pkg/framework/param"
)

// BaseProcessor provides common functionality for audio processors
type BaseProcessor struct {
	params     *param.Registry
	buses      *bus.Configuration
	programs   *Programs
	sampleRate float64
	maxBlock   int32

	// Optional callbacks for customization
	onInitialize func(sampleRate float64, maxBlockSize int32) error
	onSetActive  func(active bool) error
	onReset      func()
}

// NewBaseProcessor creates a new base processor with the given bus configuration
func NewBaseProcessor(buses *bus.Configuration) *BaseProcessor {
	if buses == nil {
		buses = bus.NewStereoConfiguration()
	}

	return &BaseProcessor{
		params:   param.NewRegistry(),
		buses:    buses,
		programs: NewPrograms(DefaultProgramName),
	}
}

// Initialize implements the Processor interface
func (b *BaseProcessor) Initialize(sampleRate float64, maxBlockSize int32) error {
	b.sampleRate = sampleRate
	b.maxBlock = maxBlockSize

	if b.onInitialize != nil {
		return b.onInitialize(sampleRate, maxBlockSize)
	}

	return nil
}

// GetParameters implements the Processor interface
func (b *BaseProcessor) GetParameters() *param.Registry {
	return b.params
}

// GetBuses implements the Processor interface
func (b *BaseProcessor) GetBuses() *bus.Configuration {
	return b.buses
}

// GetPrograms implements ProgramProvider.
func (b *BaseProcessor) GetPrograms() *Programs {
	return b.programs
}

// SetPrograms replaces the program list.
func (b *BaseProcessor) SetPrograms(p *Programs) {
	b.programs = p
}

// SetActive implements the Processor interface
func (b *BaseProcessor) SetActive(active bool) error {
	if !active && b.onReset != nil {
		b.onReset()
	}

	if b.onSetActive != nil {
		return b.onSetActive(active)
	}

	return nil
}

// GetLatencySamples implements the Processor interface - default no latency
func (b *BaseProcessor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples implements the Processor interface - default no tail
func (b *BaseProcessor) GetTailSamples() int32 {
	return 0
}

// AcceptsMIDI implements MIDIHandler - default no MIDI
func (b *BaseProcessor) AcceptsMIDI() bool {
	return false
}

// ProducesMIDI implements MIDIHandler - default no MIDI
func (b *BaseProcessor) ProducesMIDI() bool {
	return false
}

// SampleRate returns the current sample rate
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// MaxBlockSize returns the block size passed to Initialize
func (b *BaseProcessor) MaxBlockSize() int32 {
	return b.maxBlock
}

// OnInitialize sets a callback for initialization
func (b *BaseProcessor) OnInitialize(fn func(sampleRate float64, maxBlockSize int32) error) {
	b.onInitialize = fn
}

// OnSetActive sets a callback for activation/deactivation
func (b *BaseProcessor) OnSetActive(fn func(active bool) error) {
	b.onSetActive = fn
}

// OnReset sets a callback for when the processor should reset its state
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
