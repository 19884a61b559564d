package asm

import "strings"

// Line is one normalised line of AURORA source: either blank, a
// comment-only line, a label definition, or an instruction with its
// mnemonic and raw (unsplit) operand text.
type Line struct {
	Pos       Position
	Raw       string // original source text, unmodified
	Trimmed   string // comment-stripped, whitespace-trimmed
	IsBlank   bool
	IsLabel   bool
	Label     string   // label name, set iff IsLabel
	Mnemonic  string   // upper-cased mnemonic, set iff this is an instruction line
	Operands  []string // raw operand text, comma-split, each trimmed
}

// Lex normalises raw AURORA source into a sequence of Lines, applying
// the lexical rules from the design: strip leading/trailing whitespace,
// treat ';' as a comment to end of line, and recognise a label
// definition as a line whose last non-whitespace character is ':'.
func Lex(source, filename string) []*Line {
	rawLines := strings.Split(source, "\n")
	lines := make([]*Line, 0, len(rawLines))

	for i, raw := range rawLines {
		pos := Position{Filename: filename, Line: i + 1}
		line := &Line{Pos: pos, Raw: raw}
		line.Trimmed = stripComment(raw)

		if line.Trimmed == "" {
			line.IsBlank = true
			lines = append(lines, line)
			continue
		}

		if strings.HasSuffix(line.Trimmed, ":") {
			line.IsLabel = true
			line.Label = strings.TrimSpace(strings.TrimSuffix(line.Trimmed, ":"))
			lines = append(lines, line)
			continue
		}

		line.Mnemonic, line.Operands = splitInstruction(line.Trimmed)
		lines = append(lines, line)
	}

	return lines
}

// stripComment removes a ';'-to-end-of-line comment and trims the
// remaining whitespace from both ends.
func stripComment(raw string) string {
	if idx := strings.IndexByte(raw, ';'); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// splitInstruction separates a trimmed instruction line into its
// (case-normalised) mnemonic and comma-separated operands, each
// individually trimmed of surrounding whitespace.
func splitInstruction(trimmed string) (mnemonic string, operands []string) {
	// Mnemonics may be separated from operands by a space or a tab.
	mnemonic, rest := trimmed, ""
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 {
		mnemonic, rest = trimmed[:idx], trimmed[idx+1:]
	}
	mnemonic = strings.ToUpper(mnemonic)

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return mnemonic, nil
	}

	parts := strings.Split(rest, ",")
	operands = make([]string, 0, len(parts))
	for _, p := range parts {
		operands = append(operands, strings.TrimSpace(p))
	}
	return mnemonic, operands
}

// IsRegisterName reports whether a token matches the R<digits>
// register-naming convention, returning the decoded index.
func IsRegisterName(tok string) (index uint32, ok bool) {
	tok = strings.TrimSpace(tok)
	if len(tok) < 2 || (tok[0] != 'R' && tok[0] != 'r') {
		return 0, false
	}
	digits := tok[1:]
	var n uint32
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
	}
	if len(digits) == 0 {
		return 0, false
	}
	return n, true
}
