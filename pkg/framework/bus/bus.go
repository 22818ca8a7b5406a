// Package bus provides audio bus configuration and layout negotiation.
package bus

import "math/bits"

// MediaType represents the type of bus
type MediaType int32

const (
	// MediaTypeAudio represents audio bus type
	MediaTypeAudio MediaType = 0
	// MediaTypeEvent represents event/MIDI bus type
	MediaTypeEvent MediaType = 1
)

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Arrangement is a speaker arrangement bitmask, one bit per speaker.
type Arrangement uint64

// Speaker bits and common arrangements.
const (
	SpeakerL Arrangement = 1 << 0
	SpeakerR Arrangement = 1 << 1
	SpeakerC Arrangement = 1 << 2
	SpeakerM Arrangement = 1 << 19

	ArrangementEmpty  Arrangement = 0
	ArrangementMono   Arrangement = SpeakerM
	ArrangementStereo Arrangement = SpeakerL | SpeakerR
)

// ChannelCount returns the number of speakers in the arrangement.
func (a Arrangement) ChannelCount() int32 {
	return int32(bits.OnesCount64(uint64(a)))
}

// String names the common arrangements.
func (a Arrangement) String() string {
	switch a {
	case ArrangementEmpty:
		return "empty"
	case ArrangementMono:
		return "mono"
	case ArrangementStereo:
		return "stereo"
	}
	return "custom"
}

// Layout is the set of arrangements a host proposes, one per audio bus, in
// bus order.
type Layout struct {
	Inputs  []Arrangement
	Outputs []Arrangement
}

// StereoLayout is a single stereo input and output bus.
func StereoLayout() Layout {
	return Layout{
		Inputs:  []Arrangement{ArrangementStereo},
		Outputs: []Arrangement{ArrangementStereo},
	}
}

// MainInput returns the first input arrangement, or ArrangementEmpty.
func (l Layout) MainInput() Arrangement {
	if len(l.Inputs) == 0 {
		return ArrangementEmpty
	}
	return l.Inputs[0]
}

// MainOutput returns the first output arrangement, or ArrangementEmpty.
func (l Layout) MainOutput() Arrangement {
	if len(l.Outputs) == 0 {
		return ArrangementEmpty
	}
	return l.Outputs[0]
}

// Info describes one bus.
type Info struct {
	MediaType    MediaType
	Direction    Direction
	Name         string
	Speakers     Arrangement
	ChannelCount int32
}

// Arrangement returns the bus's speaker arrangement.
func (i Info) Arrangement() Arrangement {
	return i.Speakers
}

// Configuration lists a plugin's audio buses. The first bus of each direction
// is the main bus. Event buses are not supported, so every event query
// reports none.
type Configuration struct {
	audioBuses []Info
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		WithStereoOutput("Stereo Out").
		MustBuild()
}

func (c *Configuration) buses(mediaType MediaType) []Info {
	if mediaType != MediaTypeAudio {
		return nil
	}
	return c.audioBuses
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.buses(mediaType) {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(mediaType MediaType, direction Direction, index int32) *Info {
	buses := c.buses(mediaType)

	busIndex := int32(0)
	for i := range buses {
		if buses[i].Direction == direction {
			if busIndex == index {
				return &buses[i]
			}
			busIndex++
		}
	}
	return nil
}

// AudioBuses returns a copy of the audio buses in declaration order.
func (c *Configuration) AudioBuses() []Info {
	return append([]Info(nil), c.audioBuses...)
}

// Layout returns the configuration's own arrangements.
func (c *Configuration) Layout() Layout {
	var l Layout
	for _, bus := range c.audioBuses {
		if bus.Direction == DirectionInput {
			l.Inputs = append(l.Inputs, bus.Speakers)
		} else {
			l.Outputs = append(l.Outputs, bus.Speakers)
		}
	}
	return l
}

// Supports reports whether a proposed layout is exactly the configuration's
// own: the same buses per direction with identical speaker arrangements.
func (c *Configuration) Supports(l Layout) bool {
	want := c.Layout()
	return matchArrangements(want.Inputs, l.Inputs) && matchArrangements(want.Outputs, l.Outputs)
}

func matchArrangements(want, got []Arrangement) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
