package panner

import (
	"github.com/nla/simplepanner/pkg/dsp/pan"
	"github.com/nla/simplepanner/pkg/framework/param"
)

// Parameter IDs.
const (
	ParamPan uint32 = iota
	ParamBypass
	ParamLaw
	ParamSmoothing
)

// MaxSmoothingMs bounds the Smoothing parameter.
const MaxSmoothingMs = 50.0

func newParameters() *param.Registry {
	laws := make([]param.ChoiceOption, 0, len(pan.Laws()))
	for _, law := range pan.Laws() {
		laws = append(laws, param.ChoiceOption{Value: float64(law), Name: law.String()})
	}

	registry := param.NewRegistry()
	registry.MustAdd(
		param.PanParameter(ParamPan, "Pan").ShortName("Pan").Build(),
		param.BypassParameter(ParamBypass, "Bypass").Build(),
		param.Choice(ParamLaw, "Pan Law", laws).ShortName("Law").Build(),
		param.TimeParameter(ParamSmoothing, "Smoothing", 0, MaxSmoothingMs, 0).ShortName("Smooth").Build(),
	)
	return registry
}

// ParamSource supplies the pan position for the next block.
type ParamSource interface {
	CurrentPanValue() float64
}

// settingsSource is implemented by sources that carry the other parameters.
type settingsSource interface {
	Bypassed() bool
	PanLaw() pan.Law
	SmoothingMs() float64
}

// RegistrySource reads parameters from a registry built by this package.
type RegistrySource struct {
	Registry *param.Registry
}

// CurrentPanValue returns the pan position in [0, 1].
func (s RegistrySource) CurrentPanValue() float64 {
	return s.plain(ParamPan, float64(pan.Center))
}

// Bypassed reports whether the bypass switch is on.
func (s RegistrySource) Bypassed() bool {
	return s.plain(ParamBypass, 0) > 0.5
}

// PanLaw returns the selected law.
func (s RegistrySource) PanLaw() pan.Law {
	return pan.Law(s.plain(ParamLaw, 0))
}

// SmoothingMs returns the smoothing time in milliseconds.
func (s RegistrySource) SmoothingMs() float64 {
	return s.plain(ParamSmoothing, 0)
}

func (s RegistrySource) plain(id uint32, fallback float64) float64 {
	if s.Registry == nil {
		return fallback
	}
	if p := s.Registry.Get(id); p != nil {
		return p.GetPlainValue()
	}
	return fallback
}

// StaticPan is a ParamSource with a fixed position and default settings.
type StaticPan float64

// CurrentPanValue implements ParamSource.
func (s StaticPan) CurrentPanValue() float64 {
	return float64(s)
}

// Snapshot is the parameter state one block is processed with.
type Snapshot struct {
	Pan         float32
	Bypass      bool
	Law         pan.Law
	SmoothingMs float64
}

// SnapshotOf reads src once. Sources that only provide a position get the
// default law, no bypass and no smoothing.
func SnapshotOf(src ParamSource) Snapshot {
	snap := Snapshot{
		Pan: float32(src.CurrentPanValue()),
		Law: pan.UnityCenter,
	}
	if s, ok := src.(settingsSource); ok {
		snap.Bypass = s.Bypassed()
		snap.Law = s.PanLaw()
		snap.SmoothingMs = s.SmoothingMs()
	}
	return snap
}
