package asm

import "fmt"

// SymbolTable is the insertion-only label -> absolute byte address
// mapping built during pass 1 and consulted (read-only) during pass 2.
type SymbolTable struct {
	addresses map[string]uint32
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addresses: make(map[string]uint32)}
}

// Define inserts a label at an address. Redefining an existing label is
// a hard error: the design leaves duplicate insertion undefined and
// requires a diagnostic.
func (st *SymbolTable) Define(name string, address uint32, pos Position) error {
	if _, exists := st.addresses[name]; exists {
		return NewError(pos, ErrorDuplicateLabel, "label %q already defined", name)
	}
	st.addresses[name] = address
	return nil
}

// Lookup returns a label's address and whether it is defined.
func (st *SymbolTable) Lookup(name string) (uint32, bool) {
	addr, ok := st.addresses[name]
	return addr, ok
}

// Resolve returns a label's address, or an error if it is undefined.
// Lookup failure during pass 2 is a hard error terminating assembly.
func (st *SymbolTable) Resolve(name string, pos Position) (uint32, error) {
	addr, ok := st.addresses[name]
	if !ok {
		return 0, NewError(pos, ErrorUndefinedLabel, "undefined label %q", name)
	}
	return addr, nil
}

// All returns a copy of the name->address map, used by symbol dump
// tooling.
func (st *SymbolTable) All() map[string]uint32 {
	out := make(map[string]uint32, len(st.addresses))
	for k, v := range st.addresses {
		out[k] = v
	}
	return out
}

func (st *SymbolTable) String() string {
	return fmt.Sprintf("SymbolTable(%d labels)", len(st.addresses))
}
