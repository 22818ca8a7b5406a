// Package host drives a plugin through its lifecycle outside of a DAW:
// setup, bus negotiation, activation, block processing, state and teardown.
package host

import (
	"github.com/pkg/errors"

	"github.com/nla/simplepanner/pkg/framework/bus"
	"github.com/nla/simplepanner/pkg/framework/debug"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/framework/plugin"
	"github.com/nla/simplepanner/pkg/framework/process"
	"github.com/nla/simplepanner/pkg/framework/state"
)

// Lifecycle errors.
var (
	ErrNotSetup          = errors.New("host: processor not set up")
	ErrNotActive         = errors.New("host: processor not active")
	ErrTerminated        = errors.New("host: processor terminated")
	ErrBlockTooLarge     = errors.New("host: block exceeds max block size")
	ErrLayoutUnsupported = errors.New("host: bus layout not supported")
	ErrChannelMismatch   = errors.New("host: channel lengths differ")
)

// Option configures a Host.
type Option func(*Host)

// WithLogger replaces the default logger.
func WithLogger(l *debug.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// WithProfiling times every processed block.
func WithProfiling(enabled bool) Option {
	return func(h *Host) {
		h.profiling = enabled
	}
}

// Host owns one processor instance.
type Host struct {
	info      plugin.Info
	proc      plugin.Processor
	ctx       *process.Context
	layout    bus.Layout
	channels  [2][]float32
	logger    *debug.Logger
	profiler  *debug.BlockProfiler
	profiling bool

	sampleRate float64
	maxBlock   int

	setup      bool
	active     bool
	terminated bool
}

// New creates the plugin's processor. Call Setup before processing.
func New(p plugin.Plugin, opts ...Option) *Host {
	h := &Host{
		info:   p.GetInfo(),
		proc:   p.CreateProcessor(),
		logger: debug.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("plugin", h.info.Name)
	h.layout = h.proc.GetBuses().Layout()
	return h
}

// Info returns the plugin metadata.
func (h *Host) Info() plugin.Info {
	return h.info
}

// Processor returns the hosted processor.
func (h *Host) Processor() plugin.Processor {
	return h.proc
}

// Parameters returns the processor's parameter registry.
func (h *Host) Parameters() *param.Registry {
	return h.proc.GetParameters()
}

// Layout returns the negotiated bus layout.
func (h *Host) Layout() bus.Layout {
	return h.layout
}

// SampleRate returns the rate passed to Setup.
func (h *Host) SampleRate() float64 {
	return h.sampleRate
}

// MaxBlockSize returns the block size passed to Setup.
func (h *Host) MaxBlockSize() int {
	return h.maxBlock
}

// Profiler returns the block profiler, or nil when profiling is off or
// Setup has not run.
func (h *Host) Profiler() *debug.BlockProfiler {
	return h.profiler
}

// Setup initializes the processor for a sample rate and maximum block size.
// It may be called again while inactive.
func (h *Host) Setup(sampleRate float64, maxBlock int) error {
	if h.terminated {
		return ErrTerminated
	}
	if h.active {
		return errors.New("host: setup while active")
	}
	if sampleRate <= 0 {
		return errors.Errorf("host: invalid sample rate %v", sampleRate)
	}
	if maxBlock <= 0 {
		return errors.Errorf("host: invalid max block size %d", maxBlock)
	}

	if err := h.proc.Initialize(sampleRate, int32(maxBlock)); err != nil {
		return errors.Wrap(err, "initialize processor")
	}

	h.ctx = process.NewContext(h.proc.GetParameters())
	h.ctx.SampleRate = sampleRate
	h.sampleRate = sampleRate
	h.maxBlock = maxBlock
	if h.profiling {
		h.profiler = debug.NewBlockProfiler(sampleRate)
	}
	h.setup = true

	h.logger.Debug("setup at %.0f Hz, max block %d", sampleRate, maxBlock)
	return nil
}

// SetBusArrangements proposes a layout. Unsupported layouts are rejected and
// the previous layout stays in effect.
func (h *Host) SetBusArrangements(inputs, outputs []bus.Arrangement) error {
	if h.terminated {
		return ErrTerminated
	}
	layout := bus.Layout{Inputs: inputs, Outputs: outputs}
	if !plugin.SupportsLayout(h.proc, layout) {
		return errors.Wrapf(ErrLayoutUnsupported, "in=%v out=%v", inputs, outputs)
	}
	h.layout = layout
	return nil
}

// SetActive starts or stops processing.
func (h *Host) SetActive(active bool) error {
	switch {
	case h.terminated:
		return ErrTerminated
	case !h.setup:
		return ErrNotSetup
	case h.active == active:
		return nil
	}

	if err := h.proc.SetActive(active); err != nil {
		return errors.Wrapf(err, "set active %v", active)
	}
	h.active = active
	h.logger.Debug("active=%v", active)
	return nil
}

// IsActive reports whether the processor is processing.
func (h *Host) IsActive() bool {
	return h.active
}

// ProcessBlock delivers changes and processes one stereo block in place.
// An empty block only applies the parameter changes.
func (h *Host) ProcessBlock(left, right []float32, changes []process.ParameterChange) error {
	switch {
	case h.terminated:
		return ErrTerminated
	case !h.setup:
		return ErrNotSetup
	case !h.active:
		return ErrNotActive
	case len(left) != len(right):
		return errors.Wrapf(ErrChannelMismatch, "left %d, right %d", len(left), len(right))
	case len(left) > h.maxBlock:
		return errors.Wrapf(ErrBlockTooLarge, "%d > %d", len(left), h.maxBlock)
	}

	h.channels[0], h.channels[1] = left, right
	h.ctx.Begin(h.channels[:], h.channels[:])
	h.ctx.SetParameterChanges(changes)

	if len(left) == 0 {
		return nil
	}

	if h.profiler != nil {
		defer h.profiler.StartBlock(len(left))()
	}
	h.proc.ProcessAudio(h.ctx)
	return h.ctx.Err()
}

func (h *Host) stateManager() *state.Manager {
	if sp, ok := h.proc.(plugin.StateProvider); ok {
		return sp.StateManager()
	}
	m := state.NewManager(h.proc.GetParameters())
	if progs := h.Programs(); progs != nil {
		m.WithPrograms(progs)
	}
	return m
}

// State returns the processor state blob.
func (h *Host) State() ([]byte, error) {
	if h.terminated {
		return nil, ErrTerminated
	}
	data, err := h.stateManager().Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "save state")
	}
	return data, nil
}

// SetState restores a blob produced by State.
func (h *Host) SetState(data []byte) error {
	if h.terminated {
		return ErrTerminated
	}
	if err := h.stateManager().LoadBytes(data); err != nil {
		return errors.Wrap(err, "load state")
	}
	return nil
}

// Programs returns the processor's program list, or nil.
func (h *Host) Programs() *plugin.Programs {
	if pp, ok := h.proc.(plugin.ProgramProvider); ok {
		return pp.GetPrograms()
	}
	return nil
}

// ProgramCount returns the number of programs; at least one is reported.
func (h *Host) ProgramCount() int {
	if progs := h.Programs(); progs != nil {
		return progs.Count()
	}
	return 1
}

// ProgramName returns a program's name.
func (h *Host) ProgramName(index int) string {
	if progs := h.Programs(); progs != nil {
		return progs.Name(index)
	}
	if index == 0 {
		return plugin.DefaultProgramName
	}
	return ""
}

// CurrentProgram returns the selected program.
func (h *Host) CurrentProgram() int {
	if progs := h.Programs(); progs != nil {
		return progs.Current()
	}
	return 0
}

// SelectProgram changes the current program.
func (h *Host) SelectProgram(index int) error {
	if progs := h.Programs(); progs != nil {
		return progs.Select(index)
	}
	if index != 0 {
		return errors.Wrapf(plugin.ErrNoSuchProgram, "%d", index)
	}
	return nil
}

// RenameProgram renames a program. Read-only program lists accept the call
// and keep their names.
func (h *Host) RenameProgram(index int, name string) error {
	if progs := h.Programs(); progs != nil {
		return progs.Rename(index, name)
	}
	if index != 0 {
		return errors.Wrapf(plugin.ErrNoSuchProgram, "%d", index)
	}
	return nil
}

// AcceptsMIDI reports whether the processor consumes MIDI.
func (h *Host) AcceptsMIDI() bool {
	m, ok := h.proc.(plugin.MIDIHandler)
	return ok && m.AcceptsMIDI()
}

// ProducesMIDI reports whether the processor emits MIDI.
func (h *Host) ProducesMIDI() bool {
	m, ok := h.proc.(plugin.MIDIHandler)
	return ok && m.ProducesMIDI()
}

// LatencySamples returns the processor latency.
func (h *Host) LatencySamples() int32 {
	return h.proc.GetLatencySamples()
}

// TailSamples returns the processor tail length.
func (h *Host) TailSamples() int32 {
	return h.proc.GetTailSamples()
}

// Terminate deactivates the processor and releases it. Every later call
// returns ErrTerminated.
func (h *Host) Terminate() error {
	if h.terminated {
		return ErrTerminated
	}
	var err error
	if h.active {
		err = h.SetActive(false)
	}
	h.terminated = true
	h.active = false
	if h.profiler != nil {
		h.logger.Debug("%s", h.profiler.AudioReport())
	}
	return err
}
