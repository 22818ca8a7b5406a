// Package param provides parameter management for the panner plugin.
//
// Values are stored normalized (0-1) in atomics so the processing goroutine
// can read them without locking while a controller or host writes them.
package param

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// Parameter represents a plugin parameter
type Parameter struct {
	ID           uint32
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized
	StepCount    int32
	Flags        uint32

	value atomic.Uint64 // float64 bits of the normalized value

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

// Flags for parameters
const (
	CanAutomate     uint32 = 1 << 0
	IsReadOnly      uint32 = 1 << 1
	IsWrapAround    uint32 = 1 << 2
	IsList          uint32 = 1 << 3
	IsHidden        uint32 = 1 << 4
	IsProgramChange uint32 = 1 << 15
	IsBypass        uint32 = 1 << 16
)

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value. Values outside 0-1 are clamped and NaN
// resets the parameter to its default.
func (p *Parameter) SetValue(value float64) {
	switch {
	case math.IsNaN(value):
		value = p.DefaultValue
	case value < 0:
		value = 0
	case value > 1:
		value = 1
	}
	p.value.Store(math.Float64bits(value))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetValue(p.DefaultValue)
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// IsDiscrete reports whether the parameter has a fixed number of steps.
func (p *Parameter) IsDiscrete() bool {
	return p.StepCount > 0
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	if p.IsDiscrete() {
		return fmt.Sprintf("%.0f", plain)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	parse := p.parseFunc
	if parse == nil {
		parse = func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	}
	plain, err := parse(str)
	if err != nil {
		return 0, err
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	if p.Max <= p.Min {
		return 0
	}
	normalized := (plain - p.Min) / (p.Max - p.Min)
	return math.Max(0, math.Min(1, normalized))
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	plain := p.Min + normalized*(p.Max-p.Min)
	if p.IsDiscrete() {
		plain = math.Round(plain)
	}
	return plain
}
