// Package panner is the SimplePanner plugin: a stereo panner that scales the
// left and right channels by gains derived from one pan position per block.
package panner

import (
	"errors"

	"github.com/nla/simplepanner/pkg/dsp/pan"
	"github.com/nla/simplepanner/pkg/framework/bus"
	"github.com/nla/simplepanner/pkg/framework/debug"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/framework/plugin"
	"github.com/nla/simplepanner/pkg/framework/process"
	"github.com/nla/simplepanner/pkg/framework/state"
)

// ErrNotStereo is recorded when a block has fewer than two channels.
var ErrNotStereo = errors.New("panner: block is not stereo")

// magicNumber is the value the plugin has always answered Magic with.
const magicNumber = 88

// Info describes the plugin to hosts.
var Info = plugin.Info{
	ID:       "com.nla.simplepanner",
	Name:     "SimplePanner",
	Version:  "1.0.0",
	Vendor:   "nla",
	Category: "Fx|Spatial",
}

// Plugin is the plugin factory.
type Plugin struct{}

// GetInfo implements plugin.Plugin.
func (Plugin) GetInfo() plugin.Info {
	return Info
}

// CreateProcessor implements plugin.Plugin.
func (Plugin) CreateProcessor() plugin.Processor {
	return NewProcessor()
}

// Processor applies the pan gains to a stereo bus.
type Processor struct {
	*plugin.BaseProcessor
	params     *param.Registry
	source     RegistrySource
	smoother   *param.Smoother
	smoothMs   float64
	sampleRate float64
	primed     bool
	logger     *debug.Logger
}

// NewProcessor creates a processor with default parameters.
func NewProcessor() *Processor {
	p := &Processor{
		BaseProcessor: plugin.NewBaseProcessor(bus.NewStereoConfiguration()),
		params:        newParameters(),
		smoother:      param.NewSmoother(param.LinearSmoothing, 0),
		sampleRate:    44100,
		logger:        debug.Default().With("plugin", Info.Name),
	}
	p.source = RegistrySource{Registry: p.params}
	p.SetPrograms(plugin.NewPrograms(plugin.DefaultProgramName).ReadOnly())

	p.OnInitialize(func(sampleRate float64, maxBlockSize int32) error {
		if sampleRate > 0 {
			p.sampleRate = sampleRate
		}
		p.smoothMs = -1
		p.primed = false
		p.logger.Debug("initialized at %.0f Hz, max block %d", sampleRate, maxBlockSize)
		return nil
	})
	p.OnReset(func() {
		p.primed = false
	})
	return p
}

// GetParameters implements plugin.Processor.
func (p *Processor) GetParameters() *param.Registry {
	return p.params
}

// StateManager implements plugin.StateProvider.
func (p *Processor) StateManager() *state.Manager {
	return state.NewManager(p.params).WithPrograms(p.GetPrograms())
}

// Magic returns 88.
func (p *Processor) Magic() int {
	return magicNumber
}

// SupportsLayout accepts exactly one stereo input and one stereo output bus.
func (p *Processor) SupportsLayout(layout bus.Layout) bool {
	stereo := bus.StereoLayout()
	if layout.MainInput() != stereo.MainInput() || layout.MainOutput() != stereo.MainOutput() {
		return false
	}
	return p.GetBuses().Supports(layout)
}

// Snapshot reads the processor's own parameters.
func (p *Processor) Snapshot() Snapshot {
	return SnapshotOf(p.source)
}

// ProcessAudio implements plugin.Processor. Parameter changes have already
// been applied to the registry by the context.
func (p *Processor) ProcessAudio(ctx *process.Context) {
	ctx.PassThrough()
	ctx.ClearUnpairedOutputs()
	if ctx.GetNumStereoChannels() < 2 {
		ctx.SetError(ErrNotStereo)
		return
	}

	buf := pan.StereoBuffer{Left: ctx.Output[0], Right: ctx.Output[1]}
	if err := p.Process(buf, p.Snapshot()); err != nil {
		ctx.SetError(err)
	}
}

// Process pans buf in place using snap. On error the buffer is untouched.
//
// With smoothing off the whole block gets the gains of snap.Pan. With
// smoothing on the position glides toward snap.Pan and the gains are
// interpolated across the block.
func (p *Processor) Process(buf pan.StereoBuffer, snap Snapshot) error {
	if err := pan.Validate(snap.Pan); err != nil {
		return err
	}
	if err := buf.Check(); err != nil {
		return err
	}

	pos := float64(snap.Pan)
	if snap.Bypass || snap.SmoothingMs <= 0 || !p.primed {
		p.smoother.Reset(pos)
		p.primed = true
		if snap.Bypass {
			return nil
		}
		return pan.Apply(buf, snap.Law.Gains(snap.Pan))
	}

	if snap.SmoothingMs != p.smoothMs {
		p.smoother.SetTime(p.sampleRate, snap.SmoothingMs)
		p.smoothMs = snap.SmoothingMs
	}

	from := snap.Law.Gains(float32(p.smoother.Current()))
	p.smoother.SetTarget(pos)
	to := snap.Law.Gains(float32(p.smoother.Skip(buf.Len())))
	return pan.ApplyRamp(buf, from, to)
}
