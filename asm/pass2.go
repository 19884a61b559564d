package asm

import (
	"encoding/binary"

	"github.com/mpathak-dev/aurora/isa"
)

// Pass2 walks the lexed lines a second time, re-initialising the
// address to base, and emits one 32-bit little-endian word per
// instruction line into the returned image. Labels are skipped (already
// resolved in pass 1); blank/comment lines are skipped without
// advancing the address.
func Pass2(lines []*Line, st *SymbolTable, baseAddress uint32) ([]byte, error) {
	var image []byte
	addr := baseAddress

	for _, line := range lines {
		if line.IsBlank || line.IsLabel {
			continue
		}

		word, err := encodeLine(line, st, addr)
		if err != nil {
			return nil, err
		}

		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		image = append(image, buf[:]...)
		addr += 4
	}

	return image, nil
}

// encodeLine dispatches a single instruction line to the appropriate
// R/I/J encoder, per the mnemonic table in the design.
func encodeLine(line *Line, st *SymbolTable, addr uint32) (uint32, error) {
	switch line.Mnemonic {
	case "NOP":
		return isa.EncodeJ(isa.NOP, 0), nil

	case "ADD":
		return encodeRTriple(line, isa.ADD, st)
	case "SUB":
		return encodeRTriple(line, isa.SUB, st)
	case "CAS":
		return encodeRTriple(line, isa.CAS, st)

	case "CLZ":
		return encodeCLZ(line, st)

	case "ADDI":
		return encodeI(line, isa.ADDI, st)
	case "LOAD":
		return encodeI(line, isa.LOAD, st)
	case "STORE":
		return encodeI(line, isa.STORE, st)

	case "BEQ":
		return encodeBEQ(line, st, addr)

	case "JMP":
		return encodeJTarget(line, isa.JMP, st)
	case "CALL":
		return encodeJTarget(line, isa.CALL, st)

	case "RET":
		return isa.EncodeJ(isa.RET, 0), nil
	case "HALT":
		return isa.EncodeJ(isa.HALT, 0), nil
	case "RETI":
		return isa.EncodeJ(isa.RETI, 0), nil
	case "SYSCALL":
		return isa.EncodeJ(isa.SYSCALL, 0), nil

	case "":
		return 0, NewError(line.Pos, ErrorSyntax, "empty instruction line")

	default:
		return 0, NewError(line.Pos, ErrorUnknownMnemonic, "unknown mnemonic %q", line.Mnemonic)
	}
}

func expectOperands(line *Line, n int) error {
	if len(line.Operands) != n {
		return NewError(line.Pos, ErrorSyntax,
			"%s expects %d operand(s), got %d", line.Mnemonic, n, len(line.Operands))
	}
	return nil
}

func parseRegister(tok string, pos Position) (uint32, error) {
	idx, ok := IsRegisterName(tok)
	if !ok {
		return 0, NewError(pos, ErrorBadRegister, "invalid register %q", tok)
	}
	if idx > 31 {
		return 0, NewError(pos, ErrorBadRegister, "register index out of range: %q", tok)
	}
	return idx, nil
}

// encodeRTriple handles "OP Rd,Rs1,Rs2" R-format instructions.
func encodeRTriple(line *Line, op isa.Opcode, st *SymbolTable) (uint32, error) {
	if err := expectOperands(line, 3); err != nil {
		return 0, err
	}
	rd, err := parseRegister(line.Operands[0], line.Pos)
	if err != nil {
		return 0, err
	}
	rs1, err := parseRegister(line.Operands[1], line.Pos)
	if err != nil {
		return 0, err
	}
	rs2, err := parseRegister(line.Operands[2], line.Pos)
	if err != nil {
		return 0, err
	}
	return isa.EncodeR(op, rd, rs1, rs2), nil
}

// encodeCLZ handles "CLZ Rd,Rs1" (rs2 forced to zero per the design).
func encodeCLZ(line *Line, st *SymbolTable) (uint32, error) {
	if err := expectOperands(line, 2); err != nil {
		return 0, err
	}
	rd, err := parseRegister(line.Operands[0], line.Pos)
	if err != nil {
		return 0, err
	}
	rs1, err := parseRegister(line.Operands[1], line.Pos)
	if err != nil {
		return 0, err
	}
	return isa.EncodeR(isa.CLZ, rd, rs1, 0), nil
}

// encodeI handles "OP Rd,Rs1,imm" I-format instructions (ADDI, LOAD,
// STORE); imm may be a signed numeric literal or a resolvable label.
func encodeI(line *Line, op isa.Opcode, st *SymbolTable) (uint32, error) {
	if err := expectOperands(line, 3); err != nil {
		return 0, err
	}
	rd, err := parseRegister(line.Operands[0], line.Pos)
	if err != nil {
		return 0, err
	}
	rs1, err := parseRegister(line.Operands[1], line.Pos)
	if err != nil {
		return 0, err
	}
	imm, err := resolveSigned16(line.Operands[2], st, line.Pos)
	if err != nil {
		return 0, err
	}
	return isa.EncodeI(op, rd, rs1, imm), nil
}

// encodeBEQ handles "BEQ Rd,Rs1,target", converting an absolute target
// address into a PC-relative word displacement.
func encodeBEQ(line *Line, st *SymbolTable, addr uint32) (uint32, error) {
	if err := expectOperands(line, 3); err != nil {
		return 0, err
	}
	rd, err := parseRegister(line.Operands[0], line.Pos)
	if err != nil {
		return 0, err
	}
	rs1, err := parseRegister(line.Operands[1], line.Pos)
	if err != nil {
		return 0, err
	}
	target, err := resolveTarget(line.Operands[2], st, line.Pos)
	if err != nil {
		return 0, err
	}

	nextPC := addr + 4
	delta := int64(target) - int64(nextPC)
	if delta%4 != 0 {
		return 0, NewError(line.Pos, ErrorOffsetOverflow,
			"branch offset %d is not word-aligned", delta)
	}
	wordOffset := delta / 4
	if wordOffset < -32768 || wordOffset > 32767 {
		return 0, NewError(line.Pos, ErrorOffsetOverflow,
			"branch offset %d words does not fit in 16 bits", wordOffset)
	}
	return isa.EncodeI(isa.BEQ, rd, rs1, int32(wordOffset)), nil
}

// encodeJTarget handles "OP target" J-format instructions (JMP, CALL).
func encodeJTarget(line *Line, op isa.Opcode, st *SymbolTable) (uint32, error) {
	if err := expectOperands(line, 1); err != nil {
		return 0, err
	}
	target, err := resolveTarget(line.Operands[0], st, line.Pos)
	if err != nil {
		return 0, err
	}
	return isa.EncodeJ(op, target&isa.Addr26Mask), nil
}

// resolveTarget resolves an operand naming a branch/jump target: either
// a decimal/hex literal byte address, or a label looked up in the
// symbol table.
func resolveTarget(tok string, st *SymbolTable, pos Position) (uint32, error) {
	if LooksNumeric(tok) {
		v, err := ParseImmediate(tok)
		if err != nil {
			return 0, NewError(pos, ErrorBadImmediate, "malformed target literal %q: %v", tok, err)
		}
		return uint32(v), nil
	}
	return st.Resolve(tok, pos)
}

// resolveSigned16 resolves an I-format immediate operand (literal or
// label), validating that it fits in a signed 16-bit field.
func resolveSigned16(tok string, st *SymbolTable, pos Position) (int32, error) {
	var value int64
	if LooksNumeric(tok) {
		v, err := ParseImmediate(tok)
		if err != nil {
			return 0, NewError(pos, ErrorBadImmediate, "malformed immediate %q: %v", tok, err)
		}
		value = v
	} else {
		addr, err := st.Resolve(tok, pos)
		if err != nil {
			return 0, err
		}
		value = int64(addr)
	}
	if value < -32768 || value > 32767 {
		return 0, NewError(pos, ErrorBadImmediate, "immediate %d out of 16-bit range", value)
	}
	return int32(int16(uint16(value))), nil
}
