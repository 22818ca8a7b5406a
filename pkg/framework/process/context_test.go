package process

import (
	"errors"
	"testing"

	"github.com/nla/simplepanner/pkg/framework/param"
)

func newTestRegistry() *param.Registry {
	registry := param.NewRegistry()
	registry.MustAdd(
		param.PanParameter(0, "Pan").Build(),
		param.BypassParameter(1, "Bypass").Build(),
	)
	return registry
}

func TestContextParameterChanges(t *testing.T) {
	registry := newTestRegistry()
	ctx := NewContext(registry)
	ctx.Begin([][]float32{make([]float32, 64)}, [][]float32{make([]float32, 64)})

	ctx.SetParameterChanges([]ParameterChange{
		{ParamID: 0, Value: 0.25, SampleOffset: 0},
		{ParamID: 0, Value: 0.75, SampleOffset: 32},
		{ParamID: 99, Value: 1, SampleOffset: 10},
	})

	if got := registry.Value(0); got != 0.75 {
		t.Errorf("Expected last change to win, got %f", got)
	}
	if got := registry.Value(99); got != 0 {
		t.Errorf("Expected 0 for unknown parameter, got %f", got)
	}

	ctx.Begin(ctx.Input, ctx.Output)
	if got := registry.Value(0); got != 0.75 {
		t.Errorf("Expected value to persist across blocks, got %f", got)
	}

	NewContext(nil).SetParameterChanges([]ParameterChange{{ParamID: 0, Value: 1}})
}

func TestContextParameterChangesDoNotAllocate(t *testing.T) {
	ctx := NewContext(newTestRegistry())
	changes := make([]ParameterChange, 256)
	for i := range changes {
		changes[i] = ParameterChange{ParamID: uint32(i % 2), Value: float64(i%10) / 10, SampleOffset: int32(i)}
	}

	allocs := testing.AllocsPerRun(100, func() {
		ctx.Begin(nil, nil)
		ctx.SetParameterChanges(changes)
	})
	if allocs != 0 {
		t.Errorf("Expected no allocations for %d changes, got %.1f", len(changes), allocs)
	}
}

func TestContextError(t *testing.T) {
	ctx := NewContext(newTestRegistry())
	first := errors.New("first")

	ctx.SetError(first)
	ctx.SetError(errors.New("second"))
	if !errors.Is(ctx.Err(), first) {
		t.Errorf("Expected first error to stick, got %v", ctx.Err())
	}

	ctx.Begin(nil, nil)
	if ctx.Err() != nil {
		t.Errorf("Expected error cleared on Begin, got %v", ctx.Err())
	}
}

func TestContextBuffers(t *testing.T) {
	ctx := NewContext(newTestRegistry())
	in := [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}
	out := [][]float32{make([]float32, 4), make([]float32, 4)}
	ctx.Begin(in, out)

	ctx.PassThrough()
	for ch := range in {
		for i := range in[ch] {
			if out[ch][i] != in[ch][i] {
				t.Fatalf("channel %d sample %d: expected %f, got %f", ch, i, in[ch][i], out[ch][i])
			}
		}
	}

	ctx.Begin(in, in)
	ctx.PassThrough()
	if in[0][0] != 1 {
		t.Error("in-place copy should leave data intact")
	}

	ctx.Begin([][]float32{{1}, {2}, {3}}, [][]float32{{0}, {0}, {0}})
	if ctx.GetNumStereoChannels() != 2 {
		t.Errorf("Expected stereo channel cap of 2, got %d", ctx.GetNumStereoChannels())
	}
}

func TestClearUnpairedOutputs(t *testing.T) {
	ctx := NewContext(nil)
	in := [][]float32{{1, 1}}
	out := [][]float32{{1, 1}, {9, 9}, {9, 9}}
	ctx.Begin(in, out)

	ctx.ClearUnpairedOutputs()
	if out[0][0] != 1 || out[0][1] != 1 {
		t.Error("paired output should be untouched")
	}
	for ch := 1; ch < len(out); ch++ {
		for i, s := range out[ch] {
			if s != 0 {
				t.Errorf("channel %d sample %d not cleared: %f", ch, i, s)
			}
		}
	}
}
