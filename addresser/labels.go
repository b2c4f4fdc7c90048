package addresser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/tables"
)

var reservedKeywords = map[string]bool{
	"ORG": true, "DB": true, "END": true, "EQU": true,
}

func isLabelLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return false
	}
	if !strings.HasSuffix(fields[0], ":") {
		return false
	}
	return strings.ToUpper(fields[0]) != "ORG:"
}

func isValidLabelName(name string) bool {
	if name == "" {
		return false
	}
	if reservedKeywords[strings.ToUpper(name)] {
		return false
	}
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

// LabelEntry is a human-readable label->address record kept for the debug
// trace.
type LabelEntry struct {
	Name    string
	Address int
}

// collectLabels runs the front-to-back label removal pass: every label
// definition is recorded against the address of the cell that follows it,
// then removed from the image in place so later cells shift down.
func collectLabels(img *Image) (map[string]int, []*diag.Diagnostic) {
	list := &diag.List{}
	labels := map[string]int{}

	i := 0
	for i < len(*img) {
		line := strings.TrimSpace((*img)[i])
		if !isLabelLine(line) {
			i++
			continue
		}
		name := strings.TrimSuffix(line, ":")
		if !isValidLabelName(name) {
			list.Addf(diag.InvalidLabelName, diag.Address(i), "invalid label name %q", name)
			i++
			continue
		}
		if _, exists := labels[name]; exists {
			list.Addf(diag.DuplicateLabel, diag.Address(i), "duplicate label %q", name)
			// still remove so subsequent addresses stay meaningful
		} else {
			labels[name] = i
		}
		*img = append((*img)[:i], (*img)[i+1:]...)
		// do not advance i: the next cell has shifted into this slot
	}

	return labels, list.Errors()
}

var prefixedRef = regexp.MustCompile(`\b([TB])@([A-Za-z0-9_]+)\b`)
var bareRef = regexp.MustCompile(`\b[A-Za-z0-9_]+\b`)

// substitutePrefixed replaces every T@NAME / B@NAME occurrence in a single
// cell with the high/low byte of NAME's resolved address, processing
// matches right-to-left to keep earlier spans valid.
func substitutePrefixed(cell string, addr int, labels map[string]int, list *diag.List) string {
	matches := prefixedRef.FindAllStringSubmatchIndex(cell, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		start, end := m[0], m[1]
		prefix := cell[m[2]:m[3]]
		name := cell[m[4]:m[5]]

		target, ok := labels[name]
		if !ok {
			list.Addf(diag.UndefinedLabel, diag.Address(addr), "undefined label reference %q", name)
			continue
		}
		var value int
		if prefix == "T" {
			value = (target >> 8) & 0xFF
		} else {
			value = target & 0xFF
		}
		cell = cell[:start] + strconv.Itoa(value) + cell[end:]
	}
	return cell
}

// substituteBare replaces bare label references (8-bit relative branch
// offsets) in a single cell. owner is the mnemonic occupying the cell
// immediately before this one (the instruction this operand belongs to).
func substituteBare(cell string, addr int, owner string, labels map[string]int, instr *tables.InstructionSet, list *diag.List) string {
	matches := bareRef.FindAllStringIndex(cell, -1)

	type qualifying struct {
		start, end int
		name       string
	}
	var valid []qualifying
	for _, m := range matches {
		tok := cell[m[0]:m[1]]
		if isDigits(tok) {
			continue
		}
		if instr.Has(tok) {
			continue
		}
		if _, ok := labels[tok]; !ok {
			continue
		}
		valid = append(valid, qualifying{m[0], m[1], tok})
	}

	for i := len(valid) - 1; i >= 0; i-- {
		v := valid[i]
		target := labels[v.name]

		instrLen := 1
		if owner != "" {
			def, ok := instr.ByName(owner)
			if !ok {
				list.Addf(diag.UnresolvedInstructionLength, diag.Address(addr),
					"cannot determine length of instruction %q owning branch operand %q", owner, v.name)
				continue
			}
			instrLen = int(def.Length)
		}

		raw := target - (addr + instrLen)
		if raw < 0 {
			raw = -raw
		}
		var offset int
		if target > addr {
			offset = raw + 1
		} else {
			offset = raw - 1
		}
		if offset < 0 || offset > 255 {
			list.Addf(diag.OffsetOutOfRange, diag.Address(addr),
				"offset to label %q is %d, out of range [0,255]", v.name, offset)
			continue
		}
		cell = cell[:v.start] + strconv.Itoa(offset) + cell[v.end:]
	}

	return cell
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveReferences runs the substitution half of Pass C over the
// label-free image.
func resolveReferences(img Image, labels map[string]int, instr *tables.InstructionSet) []*diag.Diagnostic {
	list := &diag.List{}
	for addr, cell := range img {
		owner := ""
		if addr > 0 {
			owner = strings.TrimSpace(img[addr-1])
		}
		cell = substitutePrefixed(cell, addr, labels, list)
		cell = substituteBare(cell, addr, owner, labels, instr, list)
		img[addr] = cell
	}
	return list.Errors()
}
