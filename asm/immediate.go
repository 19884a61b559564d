package asm

import (
	"strconv"
	"strings"
)

// ParseImmediate parses a decimal, 0x-prefixed hex, or octal literal
// per standard C strtol rules (a leading zero with no 'x' suffix means
// octal). A leading '-' negates the parsed magnitude.
func ParseImmediate(tok string) (int64, error) {
	tok = strings.TrimSpace(tok)
	negative := false
	if strings.HasPrefix(tok, "-") {
		negative = true
		tok = tok[1:]
	} else if strings.HasPrefix(tok, "+") {
		tok = tok[1:]
	}

	var value uint64
	var err error
	switch {
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		value, err = strconv.ParseUint(tok[2:], 16, 64)
	case len(tok) > 1 && tok[0] == '0':
		value, err = strconv.ParseUint(tok[1:], 8, 64)
	default:
		value, err = strconv.ParseUint(tok, 10, 64)
	}
	if err != nil {
		return 0, err
	}

	result := int64(value)
	if negative {
		result = -result
	}
	return result, nil
}

// LooksNumeric reports whether a token could be a numeric literal
// (as opposed to a label name), without fully validating it.
func LooksNumeric(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return false
	}
	if tok[0] == '-' || tok[0] == '+' {
		tok = tok[1:]
	}
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}
