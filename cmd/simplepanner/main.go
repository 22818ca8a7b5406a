// Package main is the entry point for the simplepanner CLI.
//
// Usage:
//
//	simplepanner [flags] <command> [args]
//
// Commands:
//
//	gains   - Show the channel gains for a pan position
//	render  - Pan a WAV file through the plugin
//	info    - Show plugin metadata, buses, parameters and programs
//	state   - Save or inspect plugin state blobs
package main

import (
	"fmt"
	"os"

	"github.com/nla/simplepanner/cmd/simplepanner/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
