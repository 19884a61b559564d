package vm

import "github.com/mpathak-dev/aurora/isa"

// CPU32 is the 32-bit machine variant's architectural state: 32
// general registers, a 32-bit PC, and the run flag. R[0] reads as zero
// at every fetch (spec invariant i).
type CPU32 struct {
	R       [32]uint32
	PC      uint32
	Running bool
	Cycles  uint64
	Memory  *Memory

	Trace *Trace      // nil disables tracing
	Stats *Statistics // nil disables statistics
}

// NewCPU32 creates a 32-bit core over mem, ready to run once PC and
// memory have been initialised by the loader. R30 is initialised as
// the stack pointer, by convention, to the last aligned word of memory.
func NewCPU32(mem *Memory) *CPU32 {
	c := &CPU32{Memory: mem, Running: true}
	c.R[30] = MemorySize - 4
	return c
}

// Step performs one fetch/decode/execute cycle. It returns Halted on a
// guest HALT, or a *MemoryFault / *InvalidOpcode on a fatal condition.
func (c *CPU32) Step() error {
	fetchPC := c.PC
	instr, err := c.Memory.Read32(c.PC)
	if err != nil {
		if c.Stats != nil {
			c.Stats.RecordMemoryFault()
		}
		return err
	}
	c.PC += 4

	op := isa.DecodeOpcode(instr)
	if c.Trace != nil {
		c.Trace.Record(c.Cycles, fetchPC, op, -1)
	}
	if c.Stats != nil {
		c.Stats.RecordInstruction(op)
	}

	switch op {
	case isa.NOP:
		// nothing

	case isa.ADD:
		d := isa.DecodeR(instr)
		c.R[d.Rd] = c.R[d.Rs1] + c.R[d.Rs2]

	case isa.SUB:
		d := isa.DecodeR(instr)
		c.R[d.Rd] = c.R[d.Rs1] - c.R[d.Rs2]

	case isa.ADDI:
		d := isa.DecodeI(instr)
		c.R[d.Rd] = c.R[d.Rs1] + uint32(d.Imm16)

	case isa.LOAD:
		d := isa.DecodeI(instr)
		addr := c.R[d.Rs1] + uint32(d.Imm16)
		word, err := c.Memory.Read32(addr)
		if err != nil {
			if c.Stats != nil {
				c.Stats.RecordMemoryFault()
			}
			return err
		}
		c.R[d.Rd] = word

	case isa.STORE:
		d := isa.DecodeI(instr)
		addr := c.R[d.Rs1] + uint32(d.Imm16)
		if err := c.Memory.Write32(addr, c.R[d.Rd]); err != nil {
			if c.Stats != nil {
				c.Stats.RecordMemoryFault()
			}
			return err
		}

	case isa.JMP:
		d := isa.DecodeJ(instr)
		c.PC = d.Addr26

	case isa.BEQ:
		d := isa.DecodeI(instr)
		if c.R[d.Rd] == c.R[d.Rs1] {
			c.PC = uint32(int64(c.PC) + int64(d.Imm16)*4)
		}

	case isa.HALT:
		c.Running = false
		c.R[0] = 0
		return Halted{}

	case isa.CALL:
		d := isa.DecodeJ(instr)
		c.R[31] = c.PC
		c.PC = d.Addr26

	case isa.RET:
		c.PC = c.R[31]

	default:
		// RETI, SYSCALL, CLZ, CAS, and all reserved opcodes are
		// unsupported on the 32-bit variant.
		c.Running = false
		c.R[0] = 0
		if c.Stats != nil {
			c.Stats.RecordInvalidOpcode()
		}
		return &InvalidOpcode{PC: c.PC - 4, Opcode: uint32(op)}
	}

	c.R[0] = 0
	c.Cycles++
	return nil
}

// Run executes Step until it returns a non-nil error (HALT or fault),
// or maxCycles steps have elapsed, whichever comes first.
func (c *CPU32) Run(maxCycles uint64) error {
	for i := uint64(0); i < maxCycles; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
