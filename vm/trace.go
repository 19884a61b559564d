package vm

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mpathak-dev/aurora/isa"
)

// TraceEntry records one executed instruction: its cycle number, the PC it
// was fetched from, the decoded opcode mnemonic, and, on the 128-bit core,
// which interrupt line (if any) was dispatched that same step.
type TraceEntry struct {
	Cycle     uint64
	PC        uint32
	Opcode    string
	Interrupt int // -1 when no interrupt dispatched this step
}

// Trace accumulates TraceEntry records and writes them out as text or JSON
// Lines. Attaching a Trace never changes Step() semantics: the cores only
// append an entry holding the fetch PC and decoded opcode after each fetch
// and never write CPU/memory state on its behalf, mirroring the
// "nil means disabled" optional-observer convention used throughout this
// package.
type Trace struct {
	Format  string // "text" | "json"
	entries []TraceEntry
}

// NewTrace creates an empty trace recording in the given format.
func NewTrace(format string) *Trace {
	if format == "" {
		format = "text"
	}
	return &Trace{Format: format}
}

// Record appends one trace entry. interrupt should be -1 when no interrupt
// line was dispatched this step.
func (t *Trace) Record(cycle uint64, pc uint32, op isa.Opcode, interrupt int) {
	t.entries = append(t.entries, TraceEntry{
		Cycle:     cycle,
		PC:        pc,
		Opcode:    op.String(),
		Interrupt: interrupt,
	})
}

// Entries returns all recorded trace entries.
func (t *Trace) Entries() []TraceEntry {
	return t.entries
}

// Reset clears all recorded entries.
func (t *Trace) Reset() {
	t.entries = t.entries[:0]
}

// WriteTo writes every recorded entry to w in the trace's configured
// format.
func (t *Trace) WriteTo(w io.Writer) error {
	switch t.Format {
	case "json":
		return t.writeJSON(w)
	default:
		return t.writeText(w)
	}
}

func (t *Trace) writeText(w io.Writer) error {
	for _, e := range t.entries {
		line := fmt.Sprintf("[%08d] PC=0x%08X %-8s", e.Cycle, e.PC, e.Opcode)
		if e.Interrupt >= 0 {
			line += fmt.Sprintf(" INT=%d", e.Interrupt)
		}
		line += "\n"
		if _, err := w.Write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trace) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, e := range t.entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
