// Command aemu runs an AURORA instruction image:
// aemu [-bin <file>] [-addr <base>] [-cpu aur32|aur128] [-test].
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mpathak-dev/aurora/asm"
	"github.com/mpathak-dev/aurora/loader"
	"github.com/mpathak-dev/aurora/toolchain"
	"github.com/mpathak-dev/aurora/vm"
)

func main() {
	var (
		binPath     = flag.String("bin", "", "instruction image to load")
		addrFlag    = flag.String("addr", "0x1000", "base address (decimal, 0x-hex, or 0-octal)")
		cpuFlag     = flag.String("cpu", "aur32", "machine variant: aur32 or aur128")
		testFlag    = flag.Bool("test", false, "force-load the built-in test program")
		traceFlag   = flag.Bool("trace", false, "record a per-instruction execution trace")
		traceFile   = flag.String("trace-file", "trace.log", "trace output file")
		traceFormat = flag.String("trace-format", "text", "trace format: text or json")
		statsFlag   = flag.Bool("stats", false, "record performance statistics")
		statsFile   = flag.String("stats-file", "stats.json", "statistics output file")
		statsFormat = flag.String("stats-format", "json", "statistics format: json or csv")
		configFlag  = flag.String("config", "", "TOML config file (defaults to the platform config path)")
	)
	flag.Parse()

	var cfg *toolchain.Config
	var cfgErr error
	if *configFlag != "" {
		cfg, cfgErr = toolchain.LoadFrom(*configFlag)
	} else {
		cfg, cfgErr = toolchain.Load()
	}
	if cfgErr != nil {
		fmt.Fprintln(os.Stderr, "aemu:", cfgErr)
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg.ApplyFlags(
		flagOrEmpty(set, "addr", *addrFlag),
		flagOrEmpty(set, "cpu", *cpuFlag),
		0, // aemu has no -max-cycles flag; the config value (default vm.DefaultMaxCycles) governs it
		set["test"] && *testFlag,
		set["trace"] && *traceFlag,
		flagOrEmpty(set, "trace-file", *traceFile),
		flagOrEmpty(set, "trace-format", *traceFormat),
		set["stats"] && *statsFlag,
		flagOrEmpty(set, "stats-file", *statsFile),
		flagOrEmpty(set, "stats-format", *statsFormat),
	)

	base, err := parseBaseAddress(cfg.Emulator.BaseAddress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aemu: invalid -addr %q: %v\n", cfg.Emulator.BaseAddress, err)
		os.Exit(1)
	}

	variant := vm.Variant(cfg.Emulator.CPU)
	machine, err := vm.NewMachine(variant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aemu:", err)
		os.Exit(1)
	}

	useTest := cfg.Emulator.Test || *binPath == ""
	if useTest {
		loader.LoadTestProgram(machine)
	} else {
		if err := loader.LoadFile(machine, *binPath, base); err != nil {
			fmt.Fprintln(os.Stderr, "aemu:", err)
			os.Exit(1)
		}
	}

	var trace *vm.Trace
	if cfg.Trace.Enabled {
		trace = vm.NewTrace(cfg.Trace.Format)
		machine.SetTrace(trace)
	}
	var stats *vm.Statistics
	if cfg.Statistics.Enabled {
		stats = vm.NewStatistics()
		machine.SetStatistics(stats)
	}

	maxCycles := cfg.Emulator.MaxCycles
	if maxCycles == 0 {
		maxCycles = vm.DefaultMaxCycles
	}
	runErr := machine.Run(maxCycles)

	if trace != nil {
		if err := writeDiagnosticFile(cfg.Trace.OutputFile, trace.WriteTo); err != nil {
			fmt.Fprintln(os.Stderr, "aemu: writing trace:", err)
		}
	}
	if stats != nil {
		export := stats.ExportJSON
		if cfg.Statistics.Format == "csv" {
			export = stats.ExportCSV
		}
		if err := writeDiagnosticFile(cfg.Statistics.OutputFile, export); err != nil {
			fmt.Fprintln(os.Stderr, "aemu: writing statistics:", err)
		}
	}

	var halted vm.Halted
	switch {
	case runErr == nil:
		// cycle budget exhausted without HALT
	case errors.As(runErr, &halted):
		machine.Dump(os.Stdout)
		os.Exit(0)
	default:
		machine.Dump(os.Stdout)
		fmt.Fprintln(os.Stderr, "aemu:", runErr)
		os.Exit(1)
	}

	machine.Dump(os.Stdout)
}

// flagOrEmpty returns val when the named flag was explicitly set on the
// command line, or "" otherwise, so Config.ApplyFlags leaves the
// config-file value alone when the flag was not given and carries only
// its default.
func flagOrEmpty(set map[string]bool, name, val string) string {
	if set[name] {
		return val
	}
	return ""
}


func parseBaseAddress(s string) (uint32, error) {
	v, err := asm.ParseImmediate(s)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func writeDiagnosticFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
