// Package diag defines the structured diagnostic types shared by every
// compiler stage (lexsource, spacer, addresser, implementer, tables).
package diag

import "fmt"

// Kind categorizes a diagnostic. The full taxonomy matches the one named by
// the compiler's error handling design.
type Kind int

const (
	IO Kind = iota
	ParseSyntax
	InvalidNumberFormat
	DecimalLiteral
	IncompleteRow
	InvalidInteger
	ReservedAddress
	DuplicateAddress
	DuplicateName
	InstructionDefInconsistent
	UnknownInstruction
	ArityMismatch
	OriginNonMonotonic
	OriginOverflow
	DataByteOutOfRange
	InvalidLabelName
	DuplicateLabel
	UndefinedLabel
	UnresolvedInstructionLength
	OffsetOutOfRange
	UnknownAddressName
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case ParseSyntax:
		return "ParseSyntax"
	case InvalidNumberFormat:
		return "InvalidNumberFormat"
	case DecimalLiteral:
		return "DecimalLiteral"
	case IncompleteRow:
		return "IncompleteRow"
	case InvalidInteger:
		return "InvalidInteger"
	case ReservedAddress:
		return "ReservedAddress"
	case DuplicateAddress:
		return "DuplicateAddress"
	case DuplicateName:
		return "DuplicateName"
	case InstructionDefInconsistent:
		return "InstructionDefInconsistent"
	case UnknownInstruction:
		return "UnknownInstruction"
	case ArityMismatch:
		return "ArityMismatch"
	case OriginNonMonotonic:
		return "OriginNonMonotonic"
	case OriginOverflow:
		return "OriginOverflow"
	case DataByteOutOfRange:
		return "DataByteOutOfRange"
	case InvalidLabelName:
		return "InvalidLabelName"
	case DuplicateLabel:
		return "DuplicateLabel"
	case UndefinedLabel:
		return "UndefinedLabel"
	case UnresolvedInstructionLength:
		return "UnresolvedInstructionLength"
	case OffsetOutOfRange:
		return "OffsetOutOfRange"
	case UnknownAddressName:
		return "UnknownAddressName"
	default:
		return "Unknown"
	}
}

// LocationKind distinguishes a source-line location from a byte-address one.
type LocationKind int

const (
	LocNone LocationKind = iota
	LocLine
	LocAddress
)

// Location is a tagged union: a source line number where meaningful, a byte
// address otherwise.
type Location struct {
	Kind  LocationKind
	Value int
}

// Line builds a source-line location.
func Line(n int) Location { return Location{Kind: LocLine, Value: n} }

// Address builds a byte-address location.
func Address(n int) Location { return Location{Kind: LocAddress, Value: n} }

func (l Location) String() string {
	switch l.Kind {
	case LocLine:
		return fmt.Sprintf("line %d", l.Value)
	case LocAddress:
		return fmt.Sprintf("addr %d", l.Value)
	default:
		return "<unknown>"
	}
}

// Diagnostic is a structured, accumulable compiler error.
type Diagnostic struct {
	Kind     Kind
	Location Location
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Location.Kind == LocNone {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Location, d.Message)
}

// New creates a Diagnostic at the given location.
func New(kind Kind, loc Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal note a stage can record alongside its diagnostics;
// it does not count as an error.
type Warning struct {
	Location Location
	Message  string
}

func (w *Warning) String() string {
	if w.Location.Kind == LocNone {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Location, w.Message)
}

// List is a stage-local diagnostic accumulator.
type List struct {
	Diagnostics []*Diagnostic
	Warnings    []*Warning
}

func (l *List) Add(d *Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

func (l *List) Addf(kind Kind, loc Location, format string, args ...interface{}) {
	l.Add(New(kind, loc, format, args...))
}

func (l *List) Warn(loc Location, format string, args ...interface{}) {
	l.Warnings = append(l.Warnings, &Warning{Location: loc, Message: fmt.Sprintf(format, args...)})
}

func (l *List) HasErrors() bool { return len(l.Diagnostics) > 0 }

// Errors returns the accumulated diagnostics as a slice, the idiom every
// stage uses to hand its results to the driver.
func (l *List) Errors() []*Diagnostic { return l.Diagnostics }
