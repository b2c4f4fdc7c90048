// Package addresser implements the compiler's third stage: placing spaced
// lines at absolute addresses, honoring origin directives, expanding
// data-byte directives, and resolving every label reference (T@/B@ prefixed
// and bare/relative) to a numeric value.
package addresser

import (
	"sort"
	"strings"

	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/tables"
)

// Result is the Addresser's output: the resolved, label-free image plus the
// label dictionary kept for the human-readable trace.
type Result struct {
	Image  Image
	Labels []LabelEntry
}

// Address runs all three addresser passes over the spaced line list: origin
// validation, placement, and label collection/resolution.
func Address(spaced string, instr *tables.InstructionSet) (*Result, []*diag.Diagnostic) {
	if strings.TrimSpace(spaced) == "" {
		return &Result{}, nil
	}
	lines := strings.Split(spaced, "\n")

	// Pass A
	if errs := validateOrigins(lines); len(errs) > 0 {
		return nil, errs
	}

	// Pass B
	img, errs := place(lines)
	if len(errs) > 0 {
		return nil, errs
	}

	// Pass C: label collection then reference resolution.
	labels, errs := collectLabels(&img)
	if len(errs) > 0 {
		return nil, errs
	}
	if errs := resolveReferences(img, labels, instr); len(errs) > 0 {
		return nil, errs
	}

	entries := make([]LabelEntry, 0, len(labels))
	for name, addr := range labels {
		entries = append(entries, LabelEntry{Name: name, Address: addr})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })

	return &Result{Image: img, Labels: entries}, nil
}
