package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nla/simplepanner/cmd/simplepanner/internal/config"
	"github.com/nla/simplepanner/pkg/framework/debug"
)

var (
	// Global flags
	configPath   string
	verbose      bool
	outputFormat string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "simplepanner",
	Short: "Stereo panner plugin host",
	Long: `simplepanner - run the SimplePanner stereo panner outside a DAW.

The panner scales the left and right channels of a stereo signal by a pair
of gains derived from a single position in [0, 1]. Position 0.5 leaves the
signal untouched; 0 silences the left channel and 1 silences the right.

Settings come from an optional YAML file (--config) and can be overridden
per command with flags.

Examples:
  # Show the gains at a position
  simplepanner gains 0.25
  simplepanner gains 50L --law constant-power

  # Pan a file
  simplepanner render --pan 0.75 in.wav out.wav

  # Render with automation from a config file
  simplepanner -c panner.yaml render in.wav out.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "output format (yaml, json)")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	globalConfig, configLoadErr = nil, nil

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			configLoadErr = err
			return
		}
		cfg = loaded
	}
	globalConfig = cfg

	debug.SetOutput(rootCmd.ErrOrStderr())
	debug.SetFormat(cfg.Format())
	if verbose {
		debug.SetLevel(debug.LogLevelDebug)
	} else {
		debug.SetLevel(cfg.Level())
	}
}

// GetConfig returns the global configuration.
// Returns an error if the config file could not be loaded.
func GetConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, fmt.Errorf("config not available: %w", configLoadErr)
	}
	if globalConfig == nil {
		return config.Default(), nil
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
