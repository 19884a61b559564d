package vm

import (
	"fmt"
	"io"
)

// Machine is the polymorphic machine-variant abstraction: callers
// drive either core through the same set of operations without a
// package-level type selector, per the design's recommendation to use
// an interface instead of a global.
type Machine interface {
	Step() error
	Run(maxCycles uint64) error
	LoadImage(base uint32, image []byte)
	SetPC(addr uint32)
	Dump(w io.Writer)
	SetTrace(t *Trace)
	SetStatistics(s *Statistics)
}

// AUR32 wraps a 32-bit core as a Machine.
type AUR32 struct {
	CPU *CPU32
}

// NewAUR32 creates a 32-bit machine over a fresh memory image.
func NewAUR32() *AUR32 {
	return &AUR32{CPU: NewCPU32(NewMemory())}
}

func (m *AUR32) Step() error                         { return m.CPU.Step() }
func (m *AUR32) Run(maxCycles uint64) error          { return m.CPU.Run(maxCycles) }
func (m *AUR32) LoadImage(base uint32, image []byte) { m.CPU.Memory.LoadImage(base, image) }
func (m *AUR32) SetPC(addr uint32)                   { m.CPU.PC = addr }
func (m *AUR32) SetTrace(t *Trace)                   { m.CPU.Trace = t }
func (m *AUR32) SetStatistics(s *Statistics)         { m.CPU.Stats = s }

// Dump prints R0..R31 as one decimal word per register, then PC, per
// the diagnostic dump format (spec §4.K).
func (m *AUR32) Dump(w io.Writer) {
	for i, r := range m.CPU.R {
		fmt.Fprintf(w, "R%-2d = %d\n", i, r)
	}
	fmt.Fprintf(w, "PC  = 0x%08X\n", m.CPU.PC)
}

// AUR128 wraps a 128-bit core as a Machine.
type AUR128 struct {
	CPU *CPU128
}

// NewAUR128 creates a 128-bit machine over a fresh memory image, with
// the default interrupt vector table installed.
func NewAUR128() *AUR128 {
	return &AUR128{CPU: NewCPU128(NewMemory())}
}

func (m *AUR128) Step() error                         { return m.CPU.Step() }
func (m *AUR128) Run(maxCycles uint64) error          { return m.CPU.Run(maxCycles) }
func (m *AUR128) LoadImage(base uint32, image []byte) { m.CPU.Memory.LoadImage(base, image) }
func (m *AUR128) SetPC(addr uint32)                   { m.CPU.PC.Low = addr }
func (m *AUR128) SetTrace(t *Trace)                   { m.CPU.Trace = t }
func (m *AUR128) SetStatistics(s *Statistics)         { m.CPU.Stats = s }

// Dump prints R0..R31 as four 32-bit limbs in High..Low order, then
// PC, per the diagnostic dump format (spec §4.K).
func (m *AUR128) Dump(w io.Writer) {
	for i, r := range m.CPU.R {
		fmt.Fprintf(w, "R%-2d = %08X %08X %08X %08X\n", i, r.High, r.MidHigh, r.MidLow, r.Low)
	}
	fmt.Fprintf(w, "PC  = %08X %08X %08X %08X\n", m.CPU.PC.High, m.CPU.PC.MidHigh, m.CPU.PC.MidLow, m.CPU.PC.Low)
}

// Variant names a machine type, used by the loader/CLI to pick which
// Machine implementation to build.
type Variant string

const (
	VariantAUR32  Variant = "aur32"
	VariantAUR128 Variant = "aur128"
)

// NewMachine builds a Machine for the named variant.
func NewMachine(v Variant) (Machine, error) {
	switch v {
	case VariantAUR32:
		return NewAUR32(), nil
	case VariantAUR128:
		return NewAUR128(), nil
	default:
		return nil, fmt.Errorf("unknown machine variant %q", v)
	}
}
