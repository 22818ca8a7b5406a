package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// printResult writes result to the command's stdout in the --output format.
func printResult(cmd *cobra.Command, result any) error {
	return writeResult(cmd.OutOrStdout(), outputFormat, result)
}

func writeResult(w io.Writer, format string, result any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml", "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
