package bus

import (
	"errors"
	"fmt"
)

// MaxChannels bounds the speaker count of a single bus.
const MaxChannels = 32

// Builder assembles a Configuration one bus at a time.
type Builder struct {
	config *Configuration
}

// NewBuilder creates a new bus configuration builder
func NewBuilder() *Builder {
	return &Builder{config: &Configuration{}}
}

func (b *Builder) add(direction Direction, name string, speakers Arrangement) *Builder {
	b.config.audioBuses = append(b.config.audioBuses, Info{
		MediaType:    MediaTypeAudio,
		Direction:    direction,
		Name:         name,
		Speakers:     speakers,
		ChannelCount: speakers.ChannelCount(),
	})
	return b
}

// WithInput adds an audio input bus with the given speakers.
func (b *Builder) WithInput(name string, speakers Arrangement) *Builder {
	return b.add(DirectionInput, name, speakers)
}

// WithOutput adds an audio output bus with the given speakers.
func (b *Builder) WithOutput(name string, speakers Arrangement) *Builder {
	return b.add(DirectionOutput, name, speakers)
}

// WithStereoInput adds a left/right input bus.
func (b *Builder) WithStereoInput(name string) *Builder {
	return b.WithInput(name, ArrangementStereo)
}

// WithStereoOutput adds a left/right output bus.
func (b *Builder) WithStereoOutput(name string) *Builder {
	return b.WithOutput(name, ArrangementStereo)
}

// Validate requires an output bus and a sane speaker count on every bus.
func (b *Builder) Validate() error {
	var errs []error
	if b.config.GetBusCount(MediaTypeAudio, DirectionOutput) == 0 {
		errs = append(errs, errors.New("bus: configuration has no output bus"))
	}
	for _, bus := range b.config.audioBuses {
		if n := bus.ChannelCount; n <= 0 || n > MaxChannels {
			errs = append(errs, fmt.Errorf("bus: %q has %d channels, want 1-%d", bus.Name, n, MaxChannels))
		}
	}
	return errors.Join(errs...)
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
