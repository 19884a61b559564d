package asm

// Result is the product of a successful assembly: a flat instruction
// image ready to load at BaseAddress, plus the resolved symbol table
// for diagnostic dumping.
type Result struct {
	Image       []byte
	Symbols     *SymbolTable
	BaseAddress uint32
}

// Assemble runs the full pipeline against source text: macro
// preprocessing, lexing, pass 1 (symbol resolution), and pass 2
// (encoding). filename is used only to annotate diagnostics.
func Assemble(source, filename string, baseAddress uint32) (*Result, error) {
	expanded, err := Preprocess(source, filename)
	if err != nil {
		return nil, err
	}

	lines := Lex(expanded, filename)

	symbols, err := Pass1(lines, baseAddress)
	if err != nil {
		return nil, err
	}

	image, err := Pass2(lines, symbols, baseAddress)
	if err != nil {
		return nil, err
	}

	return &Result{
		Image:       image,
		Symbols:     symbols,
		BaseAddress: baseAddress,
	}, nil
}
