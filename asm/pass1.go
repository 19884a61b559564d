package asm

// Pass1 walks the lexed lines once, inserting each label into the
// symbol table at the current address and advancing the address by one
// word (4 bytes) for every instruction line. Blank and comment-only
// lines are skipped without advancing the address.
func Pass1(lines []*Line, baseAddress uint32) (*SymbolTable, error) {
	st := NewSymbolTable()
	addr := baseAddress

	for _, line := range lines {
		if line.IsBlank {
			continue
		}
		if line.IsLabel {
			if err := st.Define(line.Label, addr, line.Pos); err != nil {
				return nil, err
			}
			continue
		}
		addr += 4
	}

	return st, nil
}
