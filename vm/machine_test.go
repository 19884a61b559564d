package vm_test

import (
	"strings"
	"testing"

	"github.com/mpathak-dev/aurora/vm"
)

func TestNewMachine_UnknownVariant(t *testing.T) {
	_, err := vm.NewMachine(vm.Variant("bogus"))
	if err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestNewMachine_BuildsBothVariants(t *testing.T) {
	m32, err := vm.NewMachine(vm.VariantAUR32)
	if err != nil || m32 == nil {
		t.Fatalf("NewMachine(aur32) failed: %v", err)
	}
	m128, err := vm.NewMachine(vm.VariantAUR128)
	if err != nil || m128 == nil {
		t.Fatalf("NewMachine(aur128) failed: %v", err)
	}
}

func TestAUR32_DumpIncludesAllRegistersAndPC(t *testing.T) {
	m := vm.NewAUR32()
	m.CPU.R[5] = 123
	m.SetPC(0x2000)

	var buf strings.Builder
	m.Dump(&buf)
	out := buf.String()

	if !strings.Contains(out, "R5") || !strings.Contains(out, "123") {
		t.Fatalf("dump missing R5 = 123: %s", out)
	}
	if !strings.Contains(out, "PC") {
		t.Fatalf("dump missing PC: %s", out)
	}
}

func TestAUR128_DumpShowsFourLimbsPerRegister(t *testing.T) {
	m := vm.NewAUR128()
	m.CPU.R[7] = vm.Quad{Low: 1, MidLow: 2, MidHigh: 3, High: 4}

	var buf strings.Builder
	m.Dump(&buf)
	out := buf.String()

	if !strings.Contains(out, "R7") {
		t.Fatalf("dump missing R7: %s", out)
	}
	// High..Low order: 00000004 00000003 00000002 00000001
	if !strings.Contains(out, "00000004 00000003 00000002 00000001") {
		t.Fatalf("dump did not show limbs in High..Low order: %s", out)
	}
}
