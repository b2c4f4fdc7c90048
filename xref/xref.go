// Package xref builds a label cross-reference report from a compile's spaced
// source and resolved label dictionary: each label's definition line plus
// every line referencing it, grouped by reference kind. It works over label
// name occurrences in the spacer's line-per-cell output, since the pipeline
// has no parse tree to walk after that stage.
package xref

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/chipforge/ecfasm/addresser"
)

// RefKind distinguishes how a label is mentioned at a given line.
type RefKind int

const (
	RefDefinition RefKind = iota
	RefAbsoluteHigh
	RefAbsoluteLow
	RefBranch
)

func (k RefKind) String() string {
	switch k {
	case RefDefinition:
		return "definition"
	case RefAbsoluteHigh:
		return "T@ (high byte)"
	case RefAbsoluteLow:
		return "B@ (low byte)"
	case RefBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Reference is one occurrence of a label name at a spaced-line number.
type Reference struct {
	Kind RefKind
	Line int
}

// Symbol is a label and every place it is mentioned in the spaced source.
type Symbol struct {
	Name       string
	Address    int
	HasAddress bool
	References []Reference
}

var (
	defLine  = regexp.MustCompile(`^([A-Za-z0-9_]+):$`)
	prefixed = regexp.MustCompile(`\b([TB])@([A-Za-z0-9_]+)\b`)
)

// Build scans the spaced source (the Spacer stage's output, plus
// addresser.Result.Labels after a successful compile) for every label
// definition and reference.
func Build(spaced string, labels []addresser.LabelEntry) map[string]*Symbol {
	symbols := make(map[string]*Symbol)
	get := func(name string) *Symbol {
		if s, ok := symbols[name]; ok {
			return s
		}
		s := &Symbol{Name: name}
		symbols[name] = s
		return s
	}

	for _, l := range labels {
		sym := get(l.Name)
		sym.Address = l.Address
		sym.HasAddress = true
	}

	lines := strings.Split(spaced, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := defLine.FindStringSubmatch(line); m != nil {
			sym := get(m[1])
			sym.References = append(sym.References, Reference{Kind: RefDefinition, Line: lineNum})
			continue
		}

		if ms := prefixed.FindAllStringSubmatch(line, -1); len(ms) > 0 {
			for _, m := range ms {
				kind := RefAbsoluteLow
				if m[1] == "T" {
					kind = RefAbsoluteHigh
				}
				sym := get(m[2])
				sym.References = append(sym.References, Reference{Kind: kind, Line: lineNum})
			}
			continue
		}

		if sym, ok := symbols[line]; ok {
			sym.References = append(sym.References, Reference{Kind: RefBranch, Line: lineNum})
		}
	}

	return symbols
}

// Report renders a human-readable cross-reference listing, grouped by label
// name and reference kind.
func Report(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Label Cross-Reference\n")
	sb.WriteString("======================\n\n")

	undefined := 0
	unused := 0

	for _, name := range names {
		sym := symbols[name]
		sb.WriteString(fmt.Sprintf("%-24s", sym.Name))
		if sym.HasAddress {
			sb.WriteString(fmt.Sprintf(" [address=%d]\n", sym.Address))
		} else {
			sb.WriteString(" [undefined]\n")
			undefined++
		}

		var uses []Reference
		for _, r := range sym.References {
			if r.Kind != RefDefinition {
				uses = append(uses, r)
			}
		}
		if len(uses) == 0 {
			sb.WriteString("  Referenced: (never)\n")
			unused++
		} else {
			sb.WriteString(fmt.Sprintf("  Referenced: %d time(s)\n", len(uses)))
			byKind := map[RefKind][]int{}
			for _, r := range uses {
				byKind[r.Kind] = append(byKind[r.Kind], r.Line)
			}
			for _, kind := range []RefKind{RefBranch, RefAbsoluteHigh, RefAbsoluteLow} {
				if lineNums, ok := byKind[kind]; ok {
					sb.WriteString(fmt.Sprintf("    %-16s: line(s) %s\n", kind, joinInts(lineNums)))
				}
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total labels: %d\n", len(names)))
	sb.WriteString(fmt.Sprintf("Undefined:    %d\n", undefined))
	sb.WriteString(fmt.Sprintf("Unused:       %d\n", unused))

	return sb.String()
}

func joinInts(vals []int) string {
	sort.Ints(vals)
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
