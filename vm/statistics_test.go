package vm_test

import (
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/mpathak-dev/aurora/isa"
	"github.com/mpathak-dev/aurora/vm"
)

func TestStatistics_RecordsCyclesAndOpcodeHistogram(t *testing.T) {
	m := vm.NewAUR32()
	st := vm.NewStatistics()
	m.SetStatistics(st)

	loadWords32ForTrace(t, m, []uint32{
		isa.EncodeI(isa.ADDI, 1, 0, 1),
		isa.EncodeI(isa.ADDI, 1, 1, 1),
		isa.EncodeJ(isa.HALT, 0),
	})

	var halted vm.Halted
	err := m.Run(10)
	if !errors.As(err, &halted) {
		t.Fatalf("expected Halted, got %v", err)
	}

	if st.TotalCycles != 3 {
		t.Fatalf("TotalCycles = %d, want 3", st.TotalCycles)
	}
	if st.OpcodeCounts["ADDI"] != 2 {
		t.Fatalf("ADDI count = %d, want 2", st.OpcodeCounts["ADDI"])
	}
	if st.OpcodeCounts["HALT"] != 1 {
		t.Fatalf("HALT count = %d, want 1", st.OpcodeCounts["HALT"])
	}
}

func TestStatistics_RecordsMemoryFault(t *testing.T) {
	m := vm.NewAUR32()
	st := vm.NewStatistics()
	m.SetStatistics(st)

	m.CPU.R[1] = vm.MemorySize // address exactly at the end: out of bounds
	loadWords32ForTrace(t, m, []uint32{
		isa.EncodeI(isa.LOAD, 2, 1, 0),
	})

	_ = m.Run(10)

	if st.MemoryFaults != 1 {
		t.Fatalf("MemoryFaults = %d, want 1", st.MemoryFaults)
	}
}

func TestStatistics_RecordsInvalidOpcode(t *testing.T) {
	m := vm.NewAUR32()
	st := vm.NewStatistics()
	m.SetStatistics(st)

	loadWords32ForTrace(t, m, []uint32{
		isa.EncodeJ(isa.RETI, 0), // unsupported on the 32-bit core
	})

	_ = m.Run(10)

	if st.InvalidOpcodes != 1 {
		t.Fatalf("InvalidOpcodes = %d, want 1", st.InvalidOpcodes)
	}
}

func TestStatistics_TopOpcodesOrdersDescending(t *testing.T) {
	st := vm.NewStatistics()
	st.OpcodeCounts["ADD"] = 1
	st.OpcodeCounts["NOP"] = 5
	st.OpcodeCounts["HALT"] = 3

	top := st.TopOpcodes(2)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	if top[0].Opcode != "NOP" || top[1].Opcode != "HALT" {
		t.Fatalf("unexpected order: %+v", top)
	}
}

func TestStatistics_ExportJSON(t *testing.T) {
	st := vm.NewStatistics()
	st.RecordInstruction(isa.NOP)
	st.RecordMemoryFault()

	var buf strings.Builder
	if err := st.ExportJSON(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"total_cycles": 1`) {
		t.Fatalf("json export missing total_cycles: %s", out)
	}
	if !strings.Contains(out, `"memory_faults": 1`) {
		t.Fatalf("json export missing memory_faults: %s", out)
	}
}

func TestStatistics_ExportCSV(t *testing.T) {
	st := vm.NewStatistics()
	st.RecordInstruction(isa.ADD)
	st.RecordInstruction(isa.ADD)

	var buf strings.Builder
	if err := st.ExportCSV(&buf); err != nil {
		t.Fatal(err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, row := range rows {
		if len(row) == 2 && row[0] == "ADD" && row[1] == "2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("csv export missing ADD,2 row: %v", rows)
	}
}
