package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpathak-dev/aurora/loader"
	"github.com/mpathak-dev/aurora/toolchain"
	"github.com/mpathak-dev/aurora/vm"
)

func newRunCmd() *cobra.Command {
	var (
		bin         string
		addr        string
		cpu         string
		test        bool
		maxCycles   uint64
		trace       bool
		traceFile   string
		traceFormat string
		stats       bool
		statsFile   string
		statsFormat string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an AURORA instruction image on the emulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *toolchain.Config
			var cfgErr error
			if configPath != "" {
				cfg, cfgErr = toolchain.LoadFrom(configPath)
			} else {
				cfg, cfgErr = toolchain.Load()
			}
			if cfgErr != nil {
				return cfgErr
			}

			changed := func(name string) bool { return cmd.Flags().Changed(name) }
			setStr := func(name, val string) string {
				if changed(name) {
					return val
				}
				return ""
			}
			cfg.ApplyFlags(
				setStr("addr", addr),
				setStr("cpu", cpu),
				func() uint64 {
					if changed("max-cycles") {
						return maxCycles
					}
					return 0
				}(),
				changed("test") && test,
				changed("trace") && trace,
				setStr("trace-file", traceFile),
				setStr("trace-format", traceFormat),
				changed("stats") && stats,
				setStr("stats-file", statsFile),
				setStr("stats-format", statsFormat),
			)
			addr, cpu, test = cfg.Emulator.BaseAddress, cfg.Emulator.CPU, cfg.Emulator.Test
			maxCycles = cfg.Emulator.MaxCycles
			trace, traceFile, traceFormat = cfg.Trace.Enabled, cfg.Trace.OutputFile, cfg.Trace.Format
			stats, statsFile, statsFormat = cfg.Statistics.Enabled, cfg.Statistics.OutputFile, cfg.Statistics.Format

			base, err := parseBaseAddress(addr)
			if err != nil {
				return fmt.Errorf("invalid --addr %q: %w", addr, err)
			}

			machine, err := vm.NewMachine(vm.Variant(cpu))
			if err != nil {
				return err
			}

			if test || bin == "" {
				loader.LoadTestProgram(machine)
			} else if err := loader.LoadFile(machine, bin, base); err != nil {
				return err
			}

			var tr *vm.Trace
			if trace {
				tr = vm.NewTrace(traceFormat)
				machine.SetTrace(tr)
			}
			var st *vm.Statistics
			if stats {
				st = vm.NewStatistics()
				machine.SetStatistics(st)
			}

			runErr := machine.Run(maxCycles)

			if tr != nil {
				if werr := writeRunDiagnostic(traceFile, tr.WriteTo); werr != nil {
					fmt.Fprintln(os.Stderr, "aurora run: writing trace:", werr)
				}
			}
			if st != nil {
				export := st.ExportJSON
				if statsFormat == "csv" {
					export = st.ExportCSV
				}
				if werr := writeRunDiagnostic(statsFile, export); werr != nil {
					fmt.Fprintln(os.Stderr, "aurora run: writing statistics:", werr)
				}
			}

			var halted vm.Halted
			if runErr != nil && !errors.As(runErr, &halted) {
				machine.Dump(os.Stdout)
				return runErr
			}

			machine.Dump(os.Stdout)
			return nil
		},
	}

	cmd.Flags().StringVar(&bin, "bin", "", "instruction image to load")
	cmd.Flags().StringVar(&addr, "addr", "0x1000", "base address (decimal, 0x-hex, or 0-octal)")
	cmd.Flags().StringVar(&cpu, "cpu", "aur32", "machine variant: aur32 or aur128")
	cmd.Flags().BoolVar(&test, "test", false, "force-load the built-in test program")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", vm.DefaultMaxCycles, "maximum cycles before forced stop")
	cmd.Flags().BoolVar(&trace, "trace", false, "record a per-instruction execution trace")
	cmd.Flags().StringVar(&traceFile, "trace-file", "trace.log", "trace output file")
	cmd.Flags().StringVar(&traceFormat, "trace-format", "text", "trace format: text or json")
	cmd.Flags().BoolVar(&stats, "stats", false, "record performance statistics")
	cmd.Flags().StringVar(&statsFile, "stats-file", "stats.json", "statistics output file")
	cmd.Flags().StringVar(&statsFormat, "stats-format", "json", "statistics format: json or csv")

	return cmd
}

func writeRunDiagnostic(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
