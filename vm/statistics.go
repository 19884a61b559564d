package vm

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/mpathak-dev/aurora/isa"
)

// OpcodeCount pairs an opcode mnemonic with how many times it executed.
type OpcodeCount struct {
	Opcode string
	Count  uint64
}

// Statistics tracks execution-wide performance counters: total cycles, a
// per-opcode histogram indexed by mnemonic, and fault/trap counts. Attached
// to a Machine via SetStatistics; nil means disabled, following the same
// optional-observer convention as Trace.
type Statistics struct {
	TotalCycles    uint64
	OpcodeCounts   map[string]uint64
	MemoryFaults   uint64
	InvalidOpcodes uint64
}

// NewStatistics creates an empty statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		OpcodeCounts: make(map[string]uint64),
	}
}

// RecordInstruction increments the cycle count and the histogram entry for
// the given opcode.
func (s *Statistics) RecordInstruction(op isa.Opcode) {
	s.TotalCycles++
	s.OpcodeCounts[op.String()]++
}

// RecordMemoryFault increments the memory-fault counter.
func (s *Statistics) RecordMemoryFault() {
	s.MemoryFaults++
}

// RecordInvalidOpcode increments the invalid-opcode counter.
func (s *Statistics) RecordInvalidOpcode() {
	s.InvalidOpcodes++
}

// TopOpcodes returns the n most frequently executed opcodes, most frequent
// first. n <= 0 returns every opcode seen.
func (s *Statistics) TopOpcodes(n int) []OpcodeCount {
	counts := make([]OpcodeCount, 0, len(s.OpcodeCounts))
	for op, count := range s.OpcodeCounts {
		counts = append(counts, OpcodeCount{Opcode: op, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Opcode < counts[j].Opcode
	})
	if n > 0 && n < len(counts) {
		return counts[:n]
	}
	return counts
}

type statisticsJSON struct {
	TotalCycles    uint64           `json:"total_cycles"`
	OpcodeCounts   map[string]uint64 `json:"opcode_counts"`
	MemoryFaults   uint64           `json:"memory_faults"`
	InvalidOpcodes uint64           `json:"invalid_opcodes"`
}

// ExportJSON writes the statistics as a single JSON object.
func (s *Statistics) ExportJSON(w io.Writer) error {
	doc := statisticsJSON{
		TotalCycles:    s.TotalCycles,
		OpcodeCounts:   s.OpcodeCounts,
		MemoryFaults:   s.MemoryFaults,
		InvalidOpcodes: s.InvalidOpcodes,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportCSV writes the opcode histogram as CSV, one row per opcode,
// followed by summary rows for cycles and fault/trap counts.
func (s *Statistics) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"opcode", "count"}); err != nil {
		return err
	}
	for _, oc := range s.TopOpcodes(0) {
		if err := cw.Write([]string{oc.Opcode, fmt.Sprintf("%d", oc.Count)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total_cycles", fmt.Sprintf("%d", s.TotalCycles)}); err != nil {
		return err
	}
	if err := cw.Write([]string{"memory_faults", fmt.Sprintf("%d", s.MemoryFaults)}); err != nil {
		return err
	}
	if err := cw.Write([]string{"invalid_opcodes", fmt.Sprintf("%d", s.InvalidOpcodes)}); err != nil {
		return err
	}
	return nil
}

// String renders a short human-readable summary.
func (s *Statistics) String() string {
	out := fmt.Sprintf("cycles=%d faults=%d invalid=%d\n", s.TotalCycles, s.MemoryFaults, s.InvalidOpcodes)
	for _, oc := range s.TopOpcodes(0) {
		out += fmt.Sprintf("  %-8s %d\n", oc.Opcode, oc.Count)
	}
	return out
}
