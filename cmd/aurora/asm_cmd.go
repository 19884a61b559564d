package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpathak-dev/aurora/asm"
)

func newAsmCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "asm <input.asm> <output.bin>",
		Short: "Assemble an AURORA source file into a flat instruction image",
		Args:  cobra.ExactArgs(2),
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

			if err := os.WriteFile(args[1], result.Image, 0644); err != nil {
				return fmt.Errorf("cannot write %q: %w", args[1], err)
			}

			fmt.Printf("assembled %d words -> %s\n", len(result.Image)/4, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0", "base address (decimal, 0x-hex, or 0-octal)")
	return cmd
}

func parseBaseAddress(s string) (uint32, error) {
	v, err := asm.ParseImmediate(s)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
