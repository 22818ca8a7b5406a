// Package config loads the simplepanner CLI settings from a YAML file.
//
// Example:
//
//	sample_rate: 48000
//	block_size: 256
//	pan: 0.25
//	law: constant-power
//	smoothing_ms: 5
//	log_level: debug
//	log_format: json
//	automation:
//	  - frame: 0
//	    pan: 0.5
//	  - frame: 48000
//	    pan: 1
package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/nla/simplepanner/pkg/dsp/pan"
	"github.com/nla/simplepanner/pkg/framework/debug"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/host"
	"github.com/nla/simplepanner/pkg/panner"
)

// MaxBlockSize bounds block_size.
const MaxBlockSize = 1 << 16

// Point is one pan automation point.
type Point struct {
	Frame int     `yaml:"frame" json:"frame"`
	Pan   float64 `yaml:"pan" json:"pan"`
}

// Config holds the CLI settings. Zero values in the file keep the defaults.
type Config struct {
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
	BlockSize   int     `yaml:"block_size" json:"block_size"`
	Pan         float64 `yaml:"pan" json:"pan"`
	Law         string  `yaml:"law" json:"law"`
	SmoothingMs float64 `yaml:"smoothing_ms" json:"smoothing_ms"`
	Bypass      bool    `yaml:"bypass" json:"bypass"`
	LogLevel    string  `yaml:"log_level" json:"log_level"`
	LogFormat   string  `yaml:"log_format" json:"log_format"`
	Automation  []Point `yaml:"automation,omitempty" json:"automation,omitempty"`
}

// Default returns the settings used without a config file.
func Default() *Config {
	return &Config{
		SampleRate: 48000,
		BlockSize:  512,
		Pan:        float64(pan.Center),
		Law:        pan.UnityCenter.String(),
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return errors.Errorf("config: sample_rate must be positive, got %v", c.SampleRate)
	}
	if c.BlockSize <= 0 || c.BlockSize > MaxBlockSize {
		return errors.Errorf("config: block_size must be in [1, %d], got %d", MaxBlockSize, c.BlockSize)
	}
	if err := pan.Validate(float32(c.Pan)); err != nil {
		return errors.Wrapf(err, "config: pan %v", c.Pan)
	}
	if _, err := pan.ParseLaw(c.Law); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.SmoothingMs < 0 || c.SmoothingMs > panner.MaxSmoothingMs {
		return errors.Errorf("config: smoothing_ms must be in [0, %v], got %v", panner.MaxSmoothingMs, c.SmoothingMs)
	}
	if _, err := debug.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := debug.ParseFormat(c.LogFormat); err != nil {
		return errors.Wrap(err, "config")
	}
	for i, p := range c.Automation {
		if p.Frame < 0 {
			return errors.Errorf("config: automation[%d]: negative frame %d", i, p.Frame)
		}
		if err := pan.Validate(float32(p.Pan)); err != nil {
			return errors.Wrapf(err, "config: automation[%d]", i)
		}
	}
	return nil
}

// PanLaw returns the parsed law. Call Validate first.
func (c *Config) PanLaw() pan.Law {
	law, _ := pan.ParseLaw(c.Law)
	return law
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() debug.LogLevel {
	level, _ := debug.ParseLevel(c.LogLevel)
	return level
}

// Format returns the parsed log format. Call Validate first.
func (c *Config) Format() debug.Format {
	format, _ := debug.ParseFormat(c.LogFormat)
	return format
}

// Apply writes the settings into a panner parameter registry.
func (c *Config) Apply(params *param.Registry) {
	setPlain(params, panner.ParamPan, c.Pan)
	setPlain(params, panner.ParamLaw, float64(c.PanLaw()))
	setPlain(params, panner.ParamSmoothing, c.SmoothingMs)
	bypass := 0.0
	if c.Bypass {
		bypass = 1
	}
	setPlain(params, panner.ParamBypass, bypass)
}

func setPlain(params *param.Registry, id uint32, plain float64) {
	if p := params.Get(id); p != nil {
		p.SetPlainValue(plain)
	}
}

// HostAutomation converts the pan points for the renderer.
func (c *Config) HostAutomation() host.Automation {
	if len(c.Automation) == 0 {
		return nil
	}
	a := make(host.Automation, 0, len(c.Automation))
	for _, p := range c.Automation {
		a = append(a, host.AutomationPoint{Frame: p.Frame, ParamID: panner.ParamPan, Value: p.Pan})
	}
	return a
}
