// Package loader reads a flat AURORA instruction image from disk (or a
// built-in test program) and copies it into a Machine's memory at a
// caller-supplied base address.
package loader

import (
	"fmt"
	"os"

	"github.com/mpathak-dev/aurora/isa"
	"github.com/mpathak-dev/aurora/vm"
)

// LoadFile reads the image at path and loads it into machine at base,
// clamping the copy to the remaining address space, then sets PC to
// base.
func LoadFile(machine vm.Machine, path string, base uint32) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied image path
	if err != nil {
		return fmt.Errorf("failed to read image %q: %w", path, err)
	}
	machine.LoadImage(base, data)
	machine.SetPC(base)
	return nil
}

// LoadTestProgram loads a small built-in instruction sequence instead
// of a file, used when -test is set or no binary is supplied (spec
// §4.J). It always loads at address 0, ignoring any -addr the caller
// supplied for a real binary, and counts from 0 up to 5, storing the
// values 0 through 4 to the console window, then halts.
func LoadTestProgram(machine vm.Machine) {
	image := BuildTestImage(0)
	machine.LoadImage(0, image)
	machine.SetPC(0)
}

// BuildTestImage assembles the built-in smoke-test program directly
// from encoded words (no source text, so the assembler is not a
// dependency of the loader), relocated to run starting at base:
//
//	ADDI R1, R0, 0      ; counter
//	ADDI R2, R0, 5      ; limit
//	ADDI R3, R0, 1      ; step
//	loop:
//	BEQ  R1, R2, done   ; compare counter to limit
//	STORE R1, R0, SCREEN_BASE
//	ADD  R1, R1, R3
//	JMP  loop
//	done:
//	HALT
func BuildTestImage(base uint32) []byte {
	const (
		loopWordIdx = 3
		doneWordIdx = 7
	)
	loopAddr := base + loopWordIdx*4
	doneAddr := base + doneWordIdx*4

	beqNextPC := loopAddr + 4
	beqOffset := int32(int64(doneAddr)-int64(beqNextPC)) / 4

	words := []uint32{
		isa.EncodeI(isa.ADDI, 1, 0, 0),
		isa.EncodeI(isa.ADDI, 2, 0, 5),
		isa.EncodeI(isa.ADDI, 3, 0, 1),
		isa.EncodeI(isa.BEQ, 1, 2, beqOffset),
		isa.EncodeI(isa.STORE, 1, 0, vm.ScreenBase),
		isa.EncodeR(isa.ADD, 1, 1, 3),
		isa.EncodeJ(isa.JMP, loopAddr),
		isa.EncodeJ(isa.HALT, 0),
	}

	image := make([]byte, 0, len(words)*4)
	for _, w := range words {
		image = append(image,
			byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return image
}
