// Package spacer implements the compiler's second stage: expanding each
// mnemonic line into the physical lines it will occupy at layout time, and
// validating operand arity against the instruction table.
package spacer

import (
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/tables"
)

var reservedKeywords = map[string]bool{
	"ORG": true, "DB": true, "END": true, "EQU": true,
}

// Space expands a cleaned source (the Parser stage's output) into its spaced
// line list, per the footprint rules: a mnemonic line becomes its name, one
// line per operand (two for 16ADD, as T@/B@), and LeadingNops trailing zero
// lines.
func Space(cleaned string, instr *tables.InstructionSet) (string, []*diag.Diagnostic) {
	list := &diag.List{}
	var out []string

	if strings.TrimSpace(cleaned) == "" {
		return "", nil
	}

	lines := strings.Split(strings.TrimSpace(cleaned), "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch classify(fields) {
		case kindOrigin:
			if !validateOrigin(fields, lineNum, list) {
				continue
			}
			out = append(out, line)
		case kindLabel:
			if !validateLabel(fields, lineNum, list) {
				continue
			}
			out = append(out, line)
		case kindDataByte:
			if !validateDataByte(fields, lineNum, list) {
				continue
			}
			out = append(out, line)
		default:
			expandInstruction(fields, line, lineNum, instr, list, &out)
		}
	}

	return strings.Join(out, "\n"), list.Errors()
}

type lineKind int

const (
	kindInstruction lineKind = iota
	kindOrigin
	kindLabel
	kindDataByte
)

func classify(fields []string) lineKind {
	if len(fields) == 0 {
		return kindInstruction
	}
	first := fields[0]
	if strings.ToUpper(first) == "ORG" {
		return kindOrigin
	}
	if len(fields) == 1 && strings.HasSuffix(first, ":") {
		return kindLabel
	}
	if strings.ToUpper(first) == "DB" {
		return kindDataByte
	}
	return kindInstruction
}

func validateOrigin(fields []string, lineNum int, list *diag.List) bool {
	if len(fields) != 2 || !strings.HasSuffix(fields[1], ":") {
		list.Addf(diag.ParseSyntax, diag.Line(lineNum), "ORG format should be 'ORG <int>:'")
		return false
	}
	numStr := strings.TrimSuffix(fields[1], ":")
	if _, err := strconv.Atoi(numStr); err != nil {
		list.Addf(diag.ParseSyntax, diag.Line(lineNum), "ORG address %q is not a valid number", numStr)
		return false
	}
	return true
}

func validateLabel(fields []string, lineNum int, list *diag.List) bool {
	name := strings.TrimSuffix(fields[0], ":")
	if name == "" {
		list.Addf(diag.InvalidLabelName, diag.Line(lineNum), "empty label name")
		return false
	}
	if reservedKeywords[strings.ToUpper(name)] {
		list.Addf(diag.InvalidLabelName, diag.Line(lineNum), "label %q collides with a reserved keyword", name)
		return false
	}
	if !isNameToken(name) {
		list.Addf(diag.InvalidLabelName, diag.Line(lineNum), "label %q must contain only letters, digits, and underscores", name)
		return false
	}
	return true
}

func validateDataByte(fields []string, lineNum int, list *diag.List) bool {
	if len(fields) < 2 {
		list.Addf(diag.ParseSyntax, diag.Line(lineNum), "DB requires at least one byte operand")
		return false
	}
	for _, tok := range fields[1:] {
		if _, err := strconv.Atoi(tok); err != nil {
			list.Addf(diag.ParseSyntax, diag.Line(lineNum), "DB operand %q is not a valid number", tok)
			return false
		}
	}
	return true
}

func expandInstruction(fields []string, rawLine string, lineNum int, instr *tables.InstructionSet, list *diag.List, out *[]string) {
	name := fields[0]
	def, ok := instr.ByName(name)
	if !ok {
		list.Addf(diag.UnknownInstruction, diag.Line(lineNum), "unknown instruction %q", name)
		return
	}

	operands := fields[1:]
	fmtTokens := def.Operands()
	if len(operands) != len(fmtTokens) {
		list.Addf(diag.ArityMismatch, diag.Line(lineNum),
			"instruction %q expects %d operand(s), got %d", name, len(fmtTokens), len(operands))
		return
	}

	*out = append(*out, name)
	for i, tok := range fmtTokens {
		operand := operands[i]
		switch tok {
		case "16ADD":
			*out = append(*out, "T@"+operand)
			*out = append(*out, "B@"+operand)
		default: // NUM, WRT, READ
			*out = append(*out, operand)
		}
	}
	for i := uint8(0); i < def.LeadingNops; i++ {
		*out = append(*out, "0")
	}
}

func isNameToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}
