package vm

import "github.com/mpathak-dev/aurora/isa"

// CPU128 is the 128-bit machine variant's architectural state: 32
// quadword registers, a quadword PC (increments, branches, JMP and CALL
// modify only its Low limb; RET and RETI copy a whole quadword into
// it), and the interrupt subsystem described in the design
// (pending bitmask, interrupt-enable flag, 16-entry vector table).
type CPU128 struct {
	R       [32]Quad
	PC      Quad
	Running bool
	Cycles  uint64
	Memory  *Memory

	Pending  uint16
	IE       bool
	VectorPC [VectorCount]uint32

	Trace *Trace      // nil disables tracing
	Stats *Statistics // nil disables statistics
}

// NewCPU128 creates a 128-bit core over mem and installs the default
// vector table: every vector executes RETI except IntInvalid, which
// executes HALT. IE starts enabled so SYSCALL and invalid-opcode traps
// are observable without guest-side setup (the spec defines no
// instruction to toggle it).
func NewCPU128(mem *Memory) *CPU128 {
	c := &CPU128{Memory: mem, Running: true, IE: true}
	c.R[30] = Quad{Low: MemorySize - 4}

	haltWord := isa.EncodeJ(isa.HALT, 0)
	retiWord := isa.EncodeJ(isa.RETI, 0)

	for i := 0; i < VectorCount; i++ {
		addr := uint32(VectorBase + i*VectorSize)
		c.VectorPC[i] = addr
		if i == IntInvalid {
			mem.Write32(addr, haltWord)
		} else {
			mem.Write32(addr, retiWord)
		}
	}

	return c
}

// lowestPendingBit returns the index of the lowest set bit in Pending,
// or -1 if none is set.
func lowestPendingBit(pending uint16) int {
	for i := 0; i < VectorCount; i++ {
		if pending&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// Step performs one fetch/decode/execute cycle, including the
// interrupt prologue: dispatch is checked after the fetched
// instruction's PC has already advanced, and before the opcode switch,
// discarding the fetched word when a dispatch occurs.
func (c *CPU128) Step() error {
	fetchPC := c.PC.Low
	instr, err := c.Memory.Read32(c.PC.Low)
	if err != nil {
		if c.Stats != nil {
			c.Stats.RecordMemoryFault()
		}
		return err
	}
	c.PC.Low += 4

	op := isa.DecodeOpcode(instr)

	if c.IE && c.Pending != 0 {
		irq := lowestPendingBit(c.Pending)
		c.Pending &^= 1 << uint(irq)
		if c.Trace != nil {
			c.Trace.Record(c.Cycles, fetchPC, op, irq)
		}
		if c.Stats != nil {
			c.Stats.RecordInstruction(op)
		}
		c.R[30] = c.PC
		c.PC.Low = c.VectorPC[irq]
		c.R[0] = Quad{}
		c.Cycles++
		return nil
	}

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
		c.R[d.Rd] = AddQuad(c.R[d.Rs1], c.R[d.Rs2])

	case isa.SUB:
		d := isa.DecodeR(instr)
		c.R[d.Rd] = SubQuad(c.R[d.Rs1], c.R[d.Rs2])

	case isa.ADDI:
		d := isa.DecodeI(instr)
		c.R[d.Rd] = AddQuad(c.R[d.Rs1], SignExtendQuad16(d.Imm16))

	case isa.LOAD:
		d := isa.DecodeI(instr)
		addr := c.R[d.Rs1].Low + uint32(d.Imm16)
		q, err := c.Memory.Read128(addr)
		if err != nil {
			if c.Stats != nil {
				c.Stats.RecordMemoryFault()
			}
			return err
		}
		c.R[d.Rd] = q

	case isa.STORE:
		d := isa.DecodeI(instr)
		addr := c.R[d.Rs1].Low + uint32(d.Imm16)
		if err := c.Memory.Write128(addr, c.R[d.Rd]); err != nil {
			if c.Stats != nil {
				c.Stats.RecordMemoryFault()
			}
			return err
		}

	case isa.JMP:
		d := isa.DecodeJ(instr)
		c.PC.Low = d.Addr26

	case isa.BEQ:
		d := isa.DecodeI(instr)
		if c.R[d.Rd].Low == c.R[d.Rs1].Low {
			c.PC.Low = uint32(int64(c.PC.Low) + int64(d.Imm16)*4)
		}

	case isa.HALT:
		c.Running = false
		c.R[0] = Quad{}
		return Halted{}

	case isa.CALL:
		d := isa.DecodeJ(instr)
		c.R[31] = c.PC
		c.PC.Low = d.Addr26

	case isa.RET:
		c.PC = c.R[31]

	case isa.RETI:
		c.PC = c.R[30]

	case isa.SYSCALL:
		c.Pending |= 1 << uint(IntSoftware)

	case isa.CLZ:
		d := isa.DecodeR(instr)
		c.R[d.Rd] = Quad{Low: CLZ128(c.R[d.Rs1])}

	case isa.CAS:
		d := isa.DecodeR(instr)
		addr := c.R[d.Rs1].Low
		old, err := c.Memory.Read128(addr)
		if err != nil {
			if c.Stats != nil {
				c.Stats.RecordMemoryFault()
			}
			return err
		}
		if old.Equal(c.R[d.Rs2]) {
			if err := c.Memory.Write128(addr, c.R[d.Rd]); err != nil {
				if c.Stats != nil {
					c.Stats.RecordMemoryFault()
				}
				return err
			}
		}
		c.R[d.Rd] = old

	default:
		if c.Stats != nil {
			c.Stats.RecordInvalidOpcode()
		}
		c.Pending |= 1 << uint(IntInvalid)
	}

	c.R[0] = Quad{}
	c.Cycles++
	return nil
}

// Run executes Step until it returns a non-nil error (HALT or fault),
// or maxCycles steps have elapsed, whichever comes first.
func (c *CPU128) Run(maxCycles uint64) error {
	for i := uint64(0); i < maxCycles; i++ {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
