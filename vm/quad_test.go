package vm_test

import (
	"testing"

	"github.com/mpathak-dev/aurora/vm"
)

func TestAddQuad_CarryPropagatesThroughAllLimbs(t *testing.T) {
	a := vm.Quad{Low: 0xFFFFFFFF, MidLow: 0xFFFFFFFF, MidHigh: 0xFFFFFFFF, High: 0}
	b := vm.Quad{Low: 1}
	got := vm.AddQuad(a, b)
	want := vm.Quad{Low: 0, MidLow: 0, MidHigh: 0, High: 1}
	if got != want {
		t.Fatalf("AddQuad = %+v, want %+v", got, want)
	}
}

func TestAddQuad_OverflowOutOfHighIsDropped(t *testing.T) {
	a := vm.Quad{High: 0xFFFFFFFF}
	b := vm.Quad{Low: 0, High: 1}
	got := vm.AddQuad(a, b)
	want := vm.Quad{High: 0} // wraps silently
	if got != want {
		t.Fatalf("AddQuad = %+v, want %+v", got, want)
	}
}

func TestSubQuad_BorrowsAcrossLimbs(t *testing.T) {
	a := vm.Quad{Low: 0, MidLow: 1}
	b := vm.Quad{Low: 1}
	got := vm.SubQuad(a, b)
	want := vm.Quad{Low: 0xFFFFFFFF, MidLow: 0}
	if got != want {
		t.Fatalf("SubQuad = %+v, want %+v", got, want)
	}
}

func TestSignExtendQuad16_Negative(t *testing.T) {
	got := vm.SignExtendQuad16(-1)
	want := vm.Quad{Low: 0xFFFFFFFF, MidLow: 0xFFFFFFFF, MidHigh: 0xFFFFFFFF, High: 0xFFFFFFFF}
	if got != want {
		t.Fatalf("SignExtendQuad16(-1) = %+v, want %+v", got, want)
	}
}

func TestSignExtendQuad16_Positive(t *testing.T) {
	got := vm.SignExtendQuad16(42)
	want := vm.Quad{Low: 42}
	if got != want {
		t.Fatalf("SignExtendQuad16(42) = %+v, want %+v", got, want)
	}
}

func TestQuad_EqualRequiresAllFourLimbs(t *testing.T) {
	a := vm.Quad{Low: 1, MidLow: 2, MidHigh: 3, High: 4}
	b := vm.Quad{Low: 1, MidLow: 999, MidHigh: 3, High: 4}
	if a.Equal(b) {
		t.Fatal("quads with differing MidLow compared equal")
	}
	if !a.Equal(a) {
		t.Fatal("quad did not compare equal to itself")
	}
}

func TestCLZ128_SpansLimbBoundaries(t *testing.T) {
	// One bit set in MidLow (second limb from the bottom): CLZ should
	// count all of High and MidHigh (64 bits) plus the leading zeros
	// within MidLow.
	q := vm.Quad{MidLow: 0x00000001}
	got := vm.CLZ128(q)
	want := uint32(64 + 31)
	if got != want {
		t.Fatalf("CLZ128 = %d, want %d", got, want)
	}
}
