package tables

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
)

// row-level validation shared by every table kind: address range, the
// reserved address-0 slot, duplicate addresses, and duplicate names.
type rowGuard struct {
	seenAddr map[int]bool
	seenName map[string]bool
}

func newRowGuard() *rowGuard {
	return &rowGuard{seenAddr: map[int]bool{}, seenName: map[string]bool{}}
}

// checkAddress validates and registers an address; it returns false (with a
// diagnostic appended) if the row must be skipped.
func (g *rowGuard) checkAddress(list *diag.List, lineNum int, addrField, name string) (uint8, bool) {
	addr, err := strconv.Atoi(addrField)
	if err != nil {
		list.Addf(diag.InvalidInteger, diag.Line(lineNum), "invalid address %q", addrField)
		return 0, false
	}
	if addr < 0 || addr > 255 {
		list.Addf(diag.InvalidInteger, diag.Line(lineNum), "address %d out of range [0,255]", addr)
		return 0, false
	}
	if addr == 0 {
		list.Addf(diag.ReservedAddress, diag.Line(lineNum), "address 0 is reserved")
		return 0, false
	}
	if g.seenAddr[addr] {
		list.Addf(diag.DuplicateAddress, diag.Line(lineNum), "duplicate address %d", addr)
		return 0, false
	}
	if g.seenName[name] {
		list.Addf(diag.DuplicateName, diag.Line(lineNum), "duplicate name %q", name)
		return 0, false
	}
	g.seenAddr[addr] = true
	g.seenName[name] = true
	return uint8(addr), true
}

// LoadAddressTable loads a write/read address table: address<TAB>name<TAB>description.
func LoadAddressTable(path string) ([]AddressDef, []*diag.Diagnostic) {
	list := &diag.List{}
	f, err := os.Open(path) // #nosec G304 -- caller-provided project table path
	if err != nil {
		list.Addf(diag.IO, diag.Location{}, "opening %s: %v", path, err)
		return nil, list.Errors()
	}
	defer f.Close()

	guard := newRowGuard()
	var rows []AddressDef

	sc := bufio.NewScanner(f)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			list.Addf(diag.IncompleteRow, diag.Line(lineNum), "expected at least 2 tab-separated fields, got %d", len(parts))
			continue
		}
		name := parts[1]
		addr, ok := guard.checkAddress(list, lineNum, parts[0], name)
		if !ok {
			continue
		}
		desc := ""
		if len(parts) > 2 {
			desc = parts[2]
		}
		rows = append(rows, AddressDef{Address: addr, Name: name, Description: desc})
	}
	if err := sc.Err(); err != nil {
		list.Addf(diag.IO, diag.Location{}, "reading %s: %v", path, err)
	}
	return rows, list.Errors()
}

// LoadInstructionTable loads the instruction table:
// address<TAB>name<TAB>length<TAB>leading_nops<TAB>format<TAB>description.
func LoadInstructionTable(path string) ([]InstructionDef, []*diag.Diagnostic) {
	list := &diag.List{}
	f, err := os.Open(path) // #nosec G304 -- caller-provided project table path
	if err != nil {
		list.Addf(diag.IO, diag.Location{}, "opening %s: %v", path, err)
		return nil, list.Errors()
	}
	defer f.Close()

	guard := newRowGuard()
	var rows []InstructionDef

	sc := bufio.NewScanner(f)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			list.Addf(diag.IncompleteRow, diag.Line(lineNum), "expected at least 5 tab-separated fields, got %d", len(parts))
			continue
		}
		name := parts[1]
		addr, ok := guard.checkAddress(list, lineNum, parts[0], name)
		if !ok {
			continue
		}
		length, err := strconv.Atoi(parts[2])
		if err != nil || length < 0 || length > 255 {
			list.Addf(diag.InvalidInteger, diag.Line(lineNum), "invalid length %q", parts[2])
			continue
		}
		nops, err := strconv.Atoi(parts[3])
		if err != nil || nops < 0 || nops > 255 {
			list.Addf(diag.InvalidInteger, diag.Line(lineNum), "invalid leading_nops %q", parts[3])
			continue
		}
		format := parts[4]
		desc := ""
		if len(parts) > 5 {
			desc = parts[5]
		}

		def := InstructionDef{
			Opcode:      addr,
			Name:        name,
			Length:      uint8(length),
			LeadingNops: uint8(nops),
			Format:      format,
			Description: desc,
		}
		if def.Length != def.ExpectedLength() {
			list.Addf(diag.InstructionDefInconsistent, diag.Line(lineNum),
				"instruction %q declares length %d but format %q implies %d",
				name, def.Length, format, def.ExpectedLength())
			continue
		}
		rows = append(rows, def)
	}
	if err := sc.Err(); err != nil {
		list.Addf(diag.IO, diag.Location{}, "reading %s: %v", path, err)
	}
	return rows, list.Errors()
}

// LoadDefinitionTables loads all three tables and assembles the immutable
// DefinitionTables bundle. Diagnostics from all three loaders are
// concatenated, preserving per-table order. Address 0 carries the reserved
// "do nothing" entry in every table; user rows at 0 were already rejected by
// the row guard, so the injection here never collides.
func LoadDefinitionTables(writePath, readPath, instructionsPath string) (*DefinitionTables, []*diag.Diagnostic) {
	var all []*diag.Diagnostic

	writeRows, errs := LoadAddressTable(writePath)
	all = append(all, errs...)

	readRows, errs := LoadAddressTable(readPath)
	all = append(all, errs...)

	instRows, errs := LoadInstructionTable(instructionsPath)
	all = append(all, errs...)

	if len(all) > 0 {
		return nil, all
	}

	writeRows = append([]AddressDef{reservedAddress()}, writeRows...)
	readRows = append([]AddressDef{reservedAddress()}, readRows...)
	instRows = append([]InstructionDef{reservedInstruction()}, instRows...)

	return &DefinitionTables{
		Instructions: NewInstructionSet(instRows),
		Write:        NewAddressSet(writeRows),
		Read:         NewAddressSet(readRows),
	}, nil
}

// reservedAddress is the address-0 entry every write/read table carries.
func reservedAddress() AddressDef {
	return AddressDef{Address: 0, Name: "NOP", Description: "Do nothing"}
}

// reservedInstruction is the address-0 entry the instruction table carries.
func reservedInstruction() InstructionDef {
	return InstructionDef{
		Opcode:      0,
		Name:        "NOP",
		Length:      1,
		LeadingNops: 0,
		Format:      "INS",
		Description: "Do nothing instruction",
	}
}
