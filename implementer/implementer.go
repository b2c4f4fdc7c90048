// Package implementer implements the compiler's final stage: translating
// mnemonics and symbolic operand names in the addressed image into their
// opcode/address byte encoding.
package implementer

import (
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/addresser"
	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/tables"
)

// Line is one emitted byte: its decimal value and an optional human-readable
// annotation.
type Line struct {
	Value   string
	Comment string
}

// String renders "<decimal> //<annotation>" when a comment is present,
// "<decimal>" alone otherwise.
func (l Line) String() string {
	if l.Comment == "" {
		return l.Value
	}
	return l.Value + " //" + l.Comment
}

// Implement walks the addressed image and emits one Line per byte.
func Implement(img addresser.Image, t *tables.DefinitionTables) ([]Line, []*diag.Diagnostic) {
	list := &diag.List{}
	var out []Line

	a := 0
	for a < len(img) {
		cell := strings.TrimSpace(img[a])

		if cell == "" {
			out = append(out, Line{Value: ""})
			a++
			continue
		}

		def, ok := t.Instructions.ByName(cell)
		if !ok {
			out = append(out, Line{Value: cell})
			a++
			continue
		}

		length := int(def.Length)
		if a+length > len(img) {
			list.Addf(diag.UnknownInstruction, diag.Address(a),
				"instruction %q needs %d bytes but only %d remain", cell, length, len(img)-a)
			a++
			continue
		}

		lines, ok := encodeInstruction(def, img[a:a+length], a, t, list)
		if !ok {
			a++
			continue
		}
		out = append(out, lines...)
		a += length
	}

	return out, list.Errors()
}

func encodeInstruction(def tables.InstructionDef, cells []string, addr int, t *tables.DefinitionTables, list *diag.List) ([]Line, bool) {
	var out []Line
	out = append(out, Line{Value: itoa(def.Opcode), Comment: def.Name})

	idx := 1
	for _, tok := range def.Operands() {
		switch tok {
		case "WRT":
			name := strings.TrimSpace(cells[idx])
			a, ok := t.Write.ByName(name)
			if !ok {
				list.Addf(diag.UnknownAddressName, diag.Address(addr), "unknown write address name %q", name)
				return nil, false
			}
			out = append(out, Line{Value: itoa(a), Comment: name})
			idx++
		case "READ":
			name := strings.TrimSpace(cells[idx])
			a, ok := t.Read.ByName(name)
			if !ok {
				list.Addf(diag.UnknownAddressName, diag.Address(addr), "unknown read address name %q", name)
				return nil, false
			}
			out = append(out, Line{Value: itoa(a), Comment: name})
			idx++
		case "NUM":
			out = append(out, Line{Value: strings.TrimSpace(cells[idx])})
			idx++
		case "16ADD":
			hi := strings.TrimSpace(cells[idx])
			lo := strings.TrimSpace(cells[idx+1])
			out = append(out, Line{Value: hi, Comment: "T@16ADD"})
			out = append(out, Line{Value: lo, Comment: "B@16ADD"})
			idx += 2
		default:
			out = append(out, Line{Value: tok, Comment: strings.TrimSpace(cells[idx])})
			idx++
		}
	}

	return out, true
}

func itoa(v uint8) string {
	return strconv.Itoa(int(v))
}
