package commands

import (
	"github.com/spf13/cobra"

	"github.com/nla/simplepanner/pkg/framework/bus"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/host"
	"github.com/nla/simplepanner/pkg/panner"
)

type busResult struct {
	Name        string `yaml:"name" json:"name"`
	Direction   string `yaml:"direction" json:"direction"`
	Channels    int32  `yaml:"channels" json:"channels"`
	Arrangement string `yaml:"arrangement" json:"arrangement"`
}

type paramResult struct {
	ID       uint32  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Min      float64 `yaml:"min" json:"min"`
	Max      float64 `yaml:"max" json:"max"`
	Default  string  `yaml:"default" json:"default"`
	Steps    int32   `yaml:"steps,omitempty" json:"steps,omitempty"`
	Automate bool    `yaml:"automatable" json:"automatable"`
	IsBypass bool    `yaml:"bypass,omitempty" json:"bypass,omitempty"`
}

type infoResult struct {
	ID       string        `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Version  string        `yaml:"version" json:"version"`
	Vendor   string        `yaml:"vendor" json:"vendor"`
	Category string        `yaml:"category" json:"category"`
	UUID     string        `yaml:"uuid" json:"uuid"`
	Magic    int           `yaml:"magic" json:"magic"`
	Latency  int32         `yaml:"latency_samples" json:"latency_samples"`
	Tail     int32         `yaml:"tail_samples" json:"tail_samples"`
	MIDIIn   bool          `yaml:"midi_in" json:"midi_in"`
	MIDIOut  bool          `yaml:"midi_out" json:"midi_out"`
	Buses    []busResult   `yaml:"buses" json:"buses"`
	Params   []paramResult `yaml:"parameters" json:"parameters"`
	Programs []string      `yaml:"programs" json:"programs"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show plugin metadata, buses, parameters and programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h := host.New(panner.Plugin{})
		defer h.Terminate()

		info := h.Info()
		result := infoResult{
			ID:       info.ID,
			Name:     info.Name,
			Version:  info.Version,
			Vendor:   info.Vendor,
			Category: info.Category,
			UUID:     info.UUID().String(),
			Latency:  h.LatencySamples(),
			Tail:     h.TailSamples(),
			MIDIIn:   h.AcceptsMIDI(),
			MIDIOut:  h.ProducesMIDI(),
		}
		if m, ok := h.Processor().(interface{ Magic() int }); ok {
			result.Magic = m.Magic()
		}

		for _, b := range h.Processor().GetBuses().AudioBuses() {
			dir := "input"
			if b.Direction == bus.DirectionOutput {
				dir = "output"
			}
			result.Buses = append(result.Buses, busResult{
				Name:        b.Name,
				Direction:   dir,
				Channels:    b.ChannelCount,
				Arrangement: b.Arrangement().String(),
			})
		}

		for _, p := range h.Parameters().All() {
			result.Params = append(result.Params, paramResult{
				ID:       p.ID,
				Name:     p.Name,
				Unit:     p.Unit,
				Min:      p.Min,
				Max:      p.Max,
				Default:  p.FormatValue(p.DefaultValue),
				Steps:    p.StepCount,
				Automate: p.Flags&param.CanAutomate != 0,
				IsBypass: p.Flags&param.IsBypass != 0,
			})
		}

		for i := 0; i < h.ProgramCount(); i++ {
			result.Programs = append(result.Programs, h.ProgramName(i))
		}
		return printResult(cmd, result)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
