package commands

import (
	"bytes"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nla/simplepanner/pkg/framework/state"
	"github.com/nla/simplepanner/pkg/host"
	"github.com/nla/simplepanner/pkg/panner"
)

type stateParam struct {
	ID      uint32  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Value   float64 `yaml:"value" json:"value"`
	Display string  `yaml:"display" json:"display"`
}

type stateResult struct {
	Version uint32       `yaml:"version" json:"version"`
	Program int          `yaml:"program" json:"program"`
	Params  []stateParam `yaml:"parameters" json:"parameters"`
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Save or inspect plugin state blobs",
}

var stateSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the configured settings as a state blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}

		h := host.New(panner.Plugin{})
		defer h.Terminate()
		cfg.Apply(h.Parameters())

		data, err := h.State()
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return errors.Wrap(err, "write state")
		}
		return showState(cmd, data)
	},
}

var stateShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Decode a state blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "read state")
		}
		return showState(cmd, data)
	},
}

func showState(cmd *cobra.Command, data []byte) error {
	version, body, err := state.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	// Restoring into a fresh processor validates the blob and gives the
	// parameter display strings.
	h := host.New(panner.Plugin{})
	defer h.Terminate()
	if err := h.SetState(data); err != nil {
		return err
	}

	result := stateResult{Version: version, Program: body.Program}
	params := h.Parameters()
	for id, value := range body.Params {
		sp := stateParam{ID: id, Value: value, Name: "unknown", Display: "?"}
		if p := params.Get(id); p != nil {
			sp.Name = p.Name
			sp.Display = p.FormatValue(p.GetValue())
		}
		result.Params = append(result.Params, sp)
	}
	sort.Slice(result.Params, func(i, j int) bool {
		return result.Params[i].ID < result.Params[j].ID
	})
	return printResult(cmd, result)
}

func init() {
	stateCmd.AddCommand(stateSaveCmd)
	stateCmd.AddCommand(stateShowCmd)
	rootCmd.AddCommand(stateCmd)
}
