package param

import (
	"fmt"
	"strings"
)

// ChoiceOption represents a single choice in a list parameter
type ChoiceOption struct {
	Value   float64
	Name    string
	Aliases []string
}

// Choice creates a parameter builder for a multiple choice parameter.
// Option values are expected to be consecutive integers starting at the
// first option's value.
func Choice(id uint32, name string, options []ChoiceOption) *Builder {
	formatter := func(value float64) string {
		for _, opt := range options {
			if opt.Value == value {
				return opt.Name
			}
		}
		return "Unknown"
	}

	parser := func(str string) (float64, error) {
		str = strings.TrimSpace(str)
		for _, opt := range options {
			if strings.EqualFold(str, opt.Name) {
				return opt.Value, nil
			}
			for _, alias := range opt.Aliases {
				if strings.EqualFold(str, alias) {
					return opt.Value, nil
				}
			}
		}
		return 0, fmt.Errorf("unknown option: %s", str)
	}

	minVal, maxVal := 0.0, 0.0
	if len(options) > 0 {
		minVal = options[0].Value
		maxVal = options[len(options)-1].Value
	}

	b := New(id, name).
		Range(minVal, maxVal).
		Steps(int32(len(options)-1)).
		List().
		Formatter(formatter, parser)
	if len(options) > 0 {
		b.Default(options[0].Value)
	}
	return b
}

// PanParameter creates a stereo pan position parameter (0-1, center 0.5)
func PanParameter(id uint32, name string) *Builder {
	return New(id, name).
		Range(0, 1).
		Default(0.5).
		Formatter(PanFormatter, PanParser)
}

// TimeParameter creates a time parameter in milliseconds
func TimeParameter(id uint32, name string, minMs, maxMs, defaultMs float64) *Builder {
	return New(id, name).
		Range(minMs, maxMs).
		Default(defaultMs).
		Unit("ms").
		Formatter(TimeFormatter, TimeParser)
}

// BypassParameter creates a bypass on/off switch
func BypassParameter(id uint32, name string) *Builder {
	return Choice(id, name, []ChoiceOption{
		{Value: 0, Name: "Active", Aliases: []string{"off", "0"}},
		{Value: 1, Name: "Bypassed", Aliases: []string{"on", "1"}},
	}).Bypass()
}
