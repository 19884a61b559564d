package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mpathak-dev/aurora/asm"
)

func newDumpSymbolsCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "dump-symbols <input.asm>",
		Short: "Assemble a source file and print its resolved symbol table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := parseBaseAddress(addr)
			if err != nil {
				return fmt.Errorf("invalid --addr %q: %w", addr, err)
			}

			source, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied source path
			if err != nil {
				return fmt.Errorf("cannot read %q: %w", args[0], err)
			}

			result, err := asm.Assemble(string(source), args[0], base)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(result.Symbols.All()))
			addrs := result.Symbols.All()
			for name := range addrs {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Printf("%-24s 0x%08X\n", name, addrs[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0", "base address (decimal, 0x-hex, or 0-octal)")
	return cmd
}
