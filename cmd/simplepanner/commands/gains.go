package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nla/simplepanner/pkg/dsp/gain"
	"github.com/nla/simplepanner/pkg/dsp/pan"
	"github.com/nla/simplepanner/pkg/framework/param"
)

var gainsLaw string

type gainsResult struct {
	Position float64 `yaml:"position" json:"position"`
	Display  string  `yaml:"display" json:"display"`
	Law      string  `yaml:"law" json:"law"`
	Left     float32 `yaml:"left" json:"left"`
	Right    float32 `yaml:"right" json:"right"`
	LeftDB   string  `yaml:"left_db" json:"left_db"`
	RightDB  string  `yaml:"right_db" json:"right_db"`
}

var gainsCmd = &cobra.Command{
	Use:   "gains [position]",
	Short: "Show the channel gains for a pan position",
	Long: `Show the left and right gains for a pan position.

The position is a number in [0, 1] or a display value such as C, 50L or
100R. Without an argument the configured position is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		pos := cfg.Pan
		if len(args) == 1 {
			pos, err = param.PanParser(args[0])
			if err != nil {
				return err
			}
		}
		if err := pan.Validate(float32(pos)); err != nil {
			return fmt.Errorf("position %v: %w", pos, err)
		}

		lawName := cfg.Law
		if cmd.Flags().Changed("law") {
			lawName = gainsLaw
		}
		law, err := pan.ParseLaw(lawName)
		if err != nil {
			return err
		}

		g := law.Gains(float32(pos))
		return printResult(cmd, gainsResult{
			Position: pos,
			Display:  param.PanFormatter(pos),
			Law:      law.String(),
			Left:     g.Left,
			Right:    g.Right,
			LeftDB:   param.DecibelFormatter(gain.LinearToDb(float64(g.Left))),
			RightDB:  param.DecibelFormatter(gain.LinearToDb(float64(g.Right))),
		})
	},
}

func init() {
	gainsCmd.Flags().StringVar(&gainsLaw, "law", "", "pan law (unity, linear, constant-power)")
	rootCmd.AddCommand(gainsCmd)
}
