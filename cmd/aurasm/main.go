// Command aurasm assembles an AURORA source file into a flat
// instruction image: aurasm <input.asm> <output.bin> [-addr <base>].
package main

import (
	"fmt"
	"os"

	"github.com/mpathak-dev/aurora/asm"
)

func main() {
	args, base, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "aurasm:", err)
		printUsage()
		os.Exit(1)
	}

	source, err := os.ReadFile(args.input) // #nosec G304 -- user-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "aurasm: cannot read %q: %v\n", args.input, err)
		os.Exit(1)
	}

	result, err := asm.Assemble(string(source), args.input, base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aurasm:", err)
		os.Exit(1)
	}

	if err := os.WriteFile(args.output, result.Image, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "aurasm: cannot write %q: %v\n", args.output, err)
		os.Exit(1)
	}
}

type cliArgs struct {
	input  string
	output string
}

func parseArgs(raw []string) (cliArgs, uint32, error) {
	var positional []string
	var addrFlag string
	haveAddr := false

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if arg == "-addr" {
			if i+1 >= len(raw) {
				return cliArgs{}, 0, fmt.Errorf("-addr requires a value")
			}
			addrFlag = raw[i+1]
			haveAddr = true
			i += 2
			continue
		}
		positional = append(positional, arg)
		i++
	}

	if len(positional) != 2 {
		return cliArgs{}, 0, fmt.Errorf("expected <input.asm> <output.bin>, got %d positional arguments", len(positional))
	}

	base := uint32(0)
	if haveAddr {
		v, err := parseBaseAddress(addrFlag)
		if err != nil {
			return cliArgs{}, 0, fmt.Errorf("invalid -addr %q: %w", addrFlag, err)
		}
		base = v
	}

	return cliArgs{input: positional[0], output: positional[1]}, base, nil
}

// parseBaseAddress accepts decimal, 0x-hex, or 0-octal, per -addr.
func parseBaseAddress(s string) (uint32, error) {
	v, err := asm.ParseImmediate(s)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: aurasm <input.asm> <output.bin> [-addr <base>]")
}
