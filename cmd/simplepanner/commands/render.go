package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nla/simplepanner/pkg/framework/debug"
	"github.com/nla/simplepanner/pkg/framework/param"
	"github.com/nla/simplepanner/pkg/host"
	"github.com/nla/simplepanner/pkg/panner"
)

var (
	renderPan       string
	renderLaw       string
	renderSmoothing float64
	renderBypass    bool
	renderBlockSize int
	renderProfile   bool
)

type renderResult struct {
	Input   string           `yaml:"input" json:"input"`
	Output  string           `yaml:"output" json:"output"`
	Pan     string           `yaml:"pan" json:"pan"`
	Law     string           `yaml:"law" json:"law"`
	Stats   host.RenderStats `yaml:"stats" json:"stats"`
	LoadAvg *float64         `yaml:"load_avg_percent,omitempty" json:"load_avg_percent,omitempty"`
	LoadMax *float64         `yaml:"load_max_percent,omitempty" json:"load_max_percent,omitempty"`
}

var renderCmd = &cobra.Command{
	Use:   "render <input.wav> <output.wav>",
	Short: "Pan a WAV file through the plugin",
	Long: `Render a stereo WAV file through the panner and write the result.

The output keeps the input's sample rate and precision. Pan automation from
the config file is applied at block boundaries.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := GetConfig()
		if err != nil {
			return err
		}
		cfg := *base

		flags := cmd.Flags()
		if flags.Changed("pan") {
			if cfg.Pan, err = param.PanParser(renderPan); err != nil {
				return err
			}
		}
		if flags.Changed("law") {
			cfg.Law = renderLaw
		}
		if flags.Changed("smoothing") {
			cfg.SmoothingMs = renderSmoothing
		}
		if flags.Changed("bypass") {
			cfg.Bypass = renderBypass
		}
		if flags.Changed("block-size") {
			cfg.BlockSize = renderBlockSize
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		h := host.New(panner.Plugin{},
			host.WithLogger(debug.Default()),
			host.WithProfiling(renderProfile),
		)
		defer h.Terminate()

		if err := h.Setup(cfg.SampleRate, cfg.BlockSize); err != nil {
			return err
		}
		cfg.Apply(h.Parameters())

		in, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer in.Close()

		out, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer out.Close()

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		debug.Debug("rendering %s -> %s", args[0], args[1])
		stats, err := h.RenderFile(ctx, in, out, cfg.HostAutomation())
		if err != nil {
			return err
		}

		result := renderResult{
			Input:  args[0],
			Output: args[1],
			Pan:    param.PanFormatter(cfg.Pan),
			Law:    cfg.PanLaw().String(),
			Stats:  stats,
		}
		if p := h.Profiler(); p != nil {
			avg, worst := p.Load()
			result.LoadAvg, result.LoadMax = &avg, &worst
			if IsVerbose() {
				debug.Debug("%s", p.AudioReport())
			}
		}
		return printResult(cmd, result)
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	renderCmd.Flags().StringVar(&renderPan, "pan", "", "pan position (0-1, C, 50L, 100R)")
	renderCmd.Flags().StringVar(&renderLaw, "law", "", "pan law (unity, linear, constant-power)")
	renderCmd.Flags().Float64Var(&renderSmoothing, "smoothing", 0, "gain smoothing time in ms (0 = off)")
	renderCmd.Flags().BoolVar(&renderBypass, "bypass", false, "pass audio through unchanged")
	renderCmd.Flags().IntVar(&renderBlockSize, "block-size", 0, "host block size in samples")
	renderCmd.Flags().BoolVar(&renderProfile, "profile", false, "measure per-block processing load")
	rootCmd.AddCommand(renderCmd)
}
