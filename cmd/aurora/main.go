// Command aurora is a multi-subcommand wrapper around the assembler
// and emulator, layered on top of the plain-flag aurasm/aemu binaries
// to give scripting users a single entry point with cobra's help and
// flag conventions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configPath holds the --config persistent flag value, read by the
// run subcommand to load a toolchain.Config (spec §6 expansion).
var configPath string

func main() {
	root := &cobra.Command{
		Use:   "aurora",
		Short: "Assemble and run AURORA instruction-set programs",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (defaults to the platform config path)")

	root.AddCommand(newAsmCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpSymbolsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
