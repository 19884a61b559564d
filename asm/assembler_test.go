package asm_test

import (
	"encoding/binary"
	"testing"

	"github.com/mpathak-dev/aurora/asm"
	"github.com/mpathak-dev/aurora/isa"
)

func decodeWord(t *testing.T, image []byte, wordIdx int) uint32 {
	t.Helper()
	off := wordIdx * 4
	if off+4 > len(image) {
		t.Fatalf("image too short for word %d: len=%d", wordIdx, len(image))
	}
	return binary.LittleEndian.Uint32(image[off : off+4])
}

func TestAssemble_StraightLineProgram(t *testing.T) {
	src := `
; simple straight-line program
ADDI R1,R0,5
ADDI R2,R0,10
ADD  R3,R1,R2
STORE R3,R0,0
HALT
`
	result, err := asm.Assemble(src, "test.asm", 0)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(result.Image) != 5*4 {
		t.Fatalf("expected 5 words, got %d bytes", len(result.Image))
	}

	w0 := decodeWord(t, result.Image, 0)
	dec0 := isa.DecodeI(w0)
	if dec0.Op != isa.ADDI || dec0.Rd != 1 || dec0.Rs1 != 0 || dec0.Imm16 != 5 {
		t.Fatalf("word0 decoded wrong: %+v", dec0)
	}

	w2 := decodeWord(t, result.Image, 2)
	dec2 := isa.DecodeR(w2)
	if dec2.Op != isa.ADD || dec2.Rd != 3 || dec2.Rs1 != 1 || dec2.Rs2 != 2 {
		t.Fatalf("word2 decoded wrong: %+v", dec2)
	}

	w4 := decodeWord(t, result.Image, 4)
	if isa.DecodeOpcode(w4) != isa.HALT {
		t.Fatalf("word4 expected HALT, got opcode %d", isa.DecodeOpcode(w4))
	}
}

func TestAssemble_LabelsAndBEQ(t *testing.T) {
	src := `
start:
	ADDI R1,R0,0
loop:
	ADDI R1,R1,1
	BEQ  R1,R1,loop
	HALT
`
	result, err := asm.Assemble(src, "test.asm", 0)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	addrs := result.Symbols.All()
	if addrs["start"] != 0 {
		t.Fatalf("start label wrong: %d", addrs["start"])
	}
	if addrs["loop"] != 4 {
		t.Fatalf("loop label wrong: %d", addrs["loop"])
	}

	// BEQ is the third instruction (index 2), at address 8.
	w := decodeWord(t, result.Image, 2)
	dec := isa.DecodeI(w)
	if dec.Op != isa.BEQ {
		t.Fatalf("expected BEQ, got %s", dec.Op)
	}
	// loop is at 4; next PC after the BEQ word at addr 8 is 12;
	// offset words = (4 - 12) / 4 = -2.
	if dec.Imm16 != -2 {
		t.Fatalf("expected branch offset -2, got %d", dec.Imm16)
	}
}

func TestAssemble_UndefinedLabel(t *testing.T) {
	src := `JMP nowhere`
	_, err := asm.Assemble(src, "test.asm", 0)
	if err == nil {
		t.Fatal("expected error for undefined label")
	}
	asmErr, ok := err.(*asm.Error)
	if !ok {
		t.Fatalf("expected *asm.Error, got %T", err)
	}
	if asmErr.Kind != asm.ErrorUndefinedLabel {
		t.Fatalf("expected ErrorUndefinedLabel, got %v", asmErr.Kind)
	}
}

func TestAssemble_UnknownMnemonic(t *testing.T) {
	src := `FROBNICATE R1,R2,R3`
	_, err := asm.Assemble(src, "test.asm", 0)
	if err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
	asmErr := err.(*asm.Error)
	if asmErr.Kind != asm.ErrorUnknownMnemonic {
		t.Fatalf("expected ErrorUnknownMnemonic, got %v", asmErr.Kind)
	}
}

func TestAssemble_DuplicateLabel(t *testing.T) {
	src := `
again:
	NOP
again:
	HALT
`
	_, err := asm.Assemble(src, "test.asm", 0)
	if err == nil {
		t.Fatal("expected error for duplicate label")
	}
	asmErr := err.(*asm.Error)
	if asmErr.Kind != asm.ErrorDuplicateLabel {
		t.Fatalf("expected ErrorDuplicateLabel, got %v", asmErr.Kind)
	}
}

func TestAssemble_BranchOffsetOverflow(t *testing.T) {
	var b []byte
	b = append(b, []byte("far:\n")...)
	for i := 0; i < 40000; i++ {
		b = append(b, []byte("NOP\n")...)
	}
	b = append(b, []byte("BEQ R1,R1,far\n")...)

	_, err := asm.Assemble(string(b), "test.asm", 0)
	if err == nil {
		t.Fatal("expected branch offset overflow error")
	}
	asmErr := err.(*asm.Error)
	if asmErr.Kind != asm.ErrorOffsetOverflow {
		t.Fatalf("expected ErrorOffsetOverflow, got %v", asmErr.Kind)
	}
}

func TestAssemble_MacroAndEquExpansion(t *testing.T) {
	src := `
.equ ANSWER, 42
.macro load_answer reg
	ADDI reg,R0,ANSWER
.endm

	load_answer R5
	HALT
`
	result, err := asm.Assemble(src, "test.asm", 0)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(result.Image) != 2*4 {
		t.Fatalf("expected 2 words, got %d bytes", len(result.Image))
	}
	w0 := decodeWord(t, result.Image, 0)
	dec := isa.DecodeI(w0)
	if dec.Op != isa.ADDI || dec.Rd != 5 || dec.Imm16 != 42 {
		t.Fatalf("macro-expanded instruction decoded wrong: %+v", dec)
	}
}

func TestAssemble_CLZandCAS(t *testing.T) {
	src := `
CLZ R1,R2
CAS R3,R4,R5
`
	result, err := asm.Assemble(src, "test.asm", 0)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	w0 := decodeWord(t, result.Image, 0)
	dec0 := isa.DecodeR(w0)
	if dec0.Op != isa.CLZ || dec0.Rd != 1 || dec0.Rs1 != 2 {
		t.Fatalf("CLZ decoded wrong: %+v", dec0)
	}
	w1 := decodeWord(t, result.Image, 1)
	dec1 := isa.DecodeR(w1)
	if dec1.Op != isa.CAS || dec1.Rd != 3 || dec1.Rs1 != 4 || dec1.Rs2 != 5 {
		t.Fatalf("CAS decoded wrong: %+v", dec1)
	}
}

func TestAssemble_NonBaseZeroOrigin(t *testing.T) {
	src := `
entry:
	JMP entry
`
	result, err := asm.Assemble(src, "test.asm", 0x1000)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if addr, _ := result.Symbols.Lookup("entry"); addr != 0x1000 {
		t.Fatalf("expected entry at 0x1000, got 0x%x", addr)
	}
	w0 := decodeWord(t, result.Image, 0)
	decJ := isa.DecodeJ(w0)
	if decJ.Op != isa.JMP || decJ.Addr26 != 0x1000 {
		t.Fatalf("JMP decoded wrong: %+v", decJ)
	}
}
