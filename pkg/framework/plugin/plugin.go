// Package plugin defines the contract between a plugin and its host.
package plugin

import (
	"github.com/nla/simplepanner/pkg/framework/bus"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/framework/process"
	"github.com/nla/simplepanner/pkg/framework/state"
)

// Plugin is the main interface that users implement
type Plugin interface {
	// GetInfo returns plugin metadata
	GetInfo() Info

	// CreateProcessor creates a new instance of the audio processor
	CreateProcessor() Processor
}

// Processor handles the actual audio processing
type Processor interface {
	// Initialize is called when the plugin is created
	Initialize(sampleRate float64, maxBlockSize int32) error

	// ProcessAudio processes audio - ZERO ALLOCATIONS!
	// Failures are reported through ctx.SetError.
	ProcessAudio(ctx *process.Context)

	// GetParameters returns the parameter registry
	GetParameters() *param.Registry

	// GetBuses returns the bus configuration
	GetBuses() *bus.Configuration

	// SetActive is called when processing starts/stops
	SetActive(active bool) error

	// GetLatencySamples returns the plugin's latency in samples
	GetLatencySamples() int32

	// GetTailSamples returns the tail length in samples
	GetTailSamples() int32
}

// LayoutNegotiator is implemented by processors that decide themselves which
// bus layouts they accept. Otherwise the bus configuration decides.
type LayoutNegotiator interface {
	SupportsLayout(layout bus.Layout) bool
}

// ProgramProvider is implemented by processors that expose programs.
type ProgramProvider interface {
	GetPrograms() *Programs
}

// MIDIHandler reports whether the processor consumes or emits MIDI.
type MIDIHandler interface {
	AcceptsMIDI() bool
	ProducesMIDI() bool
}

// SupportsLayout asks the processor, falling back to its bus configuration.
func SupportsLayout(p Processor, layout bus.Layout) bool {
	if n, ok := p.(LayoutNegotiator); ok {
		return n.SupportsLayout(layout)
	}
	return p.GetBuses().Supports(layout)
}

// StateProvider is implemented by processors that persist more than their
// parameter values.
type StateProvider interface {
	StateManager() *state.Manager
}
