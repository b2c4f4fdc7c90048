// Package tables holds the three definition tables every later compiler
// stage consumes: the instruction set, the write-address map, and the
// read-address map. Tables are built once at project load and are read-only
// for the remainder of a compile.
package tables

import "strings"

// InstructionDef describes one entry of the instruction table.
type InstructionDef struct {
	Opcode      uint8
	Name        string
	Length      uint8 // total bytes including the opcode, excluding LeadingNops
	LeadingNops uint8
	Format      string
	Description string
}

// Operands returns the format's operand tokens (everything after the
// leading "INS" token).
func (d InstructionDef) Operands() []string {
	parts := strings.Split(d.Format, "_")
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

// Arity is the number of operand tokens (source-level operand count).
func (d InstructionDef) Arity() int { return len(d.Operands()) }

// ExpectedLength recomputes length from Format per the invariant:
// length = 1 + count(NUM|WRT|READ) + 2*count(16ADD).
func (d InstructionDef) ExpectedLength() uint8 {
	n := 1
	for _, tok := range d.Operands() {
		if tok == "16ADD" {
			n += 2
		} else {
			n++
		}
	}
	return uint8(n)
}

// AddressDef describes one entry of a write- or read-address table.
type AddressDef struct {
	Address     uint8
	Name        string
	Description string
}

// InstructionSet is the immutable, address-keyed instruction table with a
// name index for the reverse lookups the Spacer/Addresser/Implementer need.
type InstructionSet struct {
	byOpcode map[uint8]InstructionDef
	byName   map[string]InstructionDef
}

// NewInstructionSet builds an InstructionSet from loaded rows. The caller is
// responsible for having validated rows beforehand (see LoadInstructionTable).
func NewInstructionSet(rows []InstructionDef) *InstructionSet {
	s := &InstructionSet{
		byOpcode: make(map[uint8]InstructionDef, len(rows)),
		byName:   make(map[string]InstructionDef, len(rows)),
	}
	for _, r := range rows {
		s.byOpcode[r.Opcode] = r
		s.byName[r.Name] = r
	}
	return s
}

func (s *InstructionSet) ByOpcode(opcode uint8) (InstructionDef, bool) {
	d, ok := s.byOpcode[opcode]
	return d, ok
}

func (s *InstructionSet) ByName(name string) (InstructionDef, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// Has reports whether name is a known mnemonic.
func (s *InstructionSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// AddressSet is the immutable, address-keyed write/read address table.
type AddressSet struct {
	byAddress map[uint8]AddressDef
	byName    map[string]uint8
}

func NewAddressSet(rows []AddressDef) *AddressSet {
	s := &AddressSet{
		byAddress: make(map[uint8]AddressDef, len(rows)),
		byName:    make(map[string]uint8, len(rows)),
	}
	for _, r := range rows {
		s.byAddress[r.Address] = r
		s.byName[r.Name] = r.Address
	}
	return s
}

func (s *AddressSet) ByAddress(addr uint8) (AddressDef, bool) {
	d, ok := s.byAddress[addr]
	return d, ok
}

// ByName performs the reverse lookup the Implementer needs to resolve a
// symbolic WRT/READ operand back to its numeric address.
func (s *AddressSet) ByName(name string) (uint8, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// DefinitionTables bundles the three immutable tables a compile needs after
// the parser. This is the value threaded through Spacer -> Addresser ->
// Implementer.
type DefinitionTables struct {
	Instructions *InstructionSet
	Write        *AddressSet
	Read         *AddressSet
}
