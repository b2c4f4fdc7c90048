package addresser

import (
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
)

type originMark struct {
	addr    int
	lineIdx int // index into lines
}

func isOriginLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) == 2 && strings.ToUpper(fields[0]) == "ORG" && strings.HasSuffix(fields[1], ":")
}

func originAddress(line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(fields[1], ":"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// validateOrigins runs Pass A: ORG addresses must appear in strictly
// increasing order, and the non-empty content between consecutive ORGs must
// fit in the address span they leave available. Content before the first
// explicit ORG is laid out from address 0, so it counts against an implicit
// origin 0 there.
func validateOrigins(lines []string) []*diag.Diagnostic {
	list := &diag.List{}

	var marks []originMark
	for i, line := range lines {
		if isOriginLine(line) {
			addr, ok := originAddress(line)
			if !ok {
				list.Addf(diag.OriginNonMonotonic, diag.Line(i+1), "invalid ORG address in %q", line)
				return list.Errors()
			}
			marks = append(marks, originMark{addr: addr, lineIdx: i})
		}
	}

	if len(marks) > 0 {
		for i := 0; i < marks[0].lineIdx; i++ {
			if strings.TrimSpace(lines[i]) != "" {
				marks = append([]originMark{{addr: 0, lineIdx: -1}}, marks...)
				break
			}
		}
	}

	for i := 1; i < len(marks); i++ {
		if marks[i].addr <= marks[i-1].addr {
			list.Addf(diag.OriginNonMonotonic, diag.Line(marks[i].lineIdx+1),
				"ORG %d must come after ORG %d in ascending order", marks[i].addr, marks[i-1].addr)
			return list.Errors()
		}
	}

	for i := 1; i < len(marks); i++ {
		prev, cur := marks[i-1], marks[i]
		contentLines := 0
		for j := prev.lineIdx + 1; j < cur.lineIdx; j++ {
			if strings.TrimSpace(lines[j]) != "" {
				contentLines++
			}
		}
		available := cur.addr - prev.addr
		if contentLines > available {
			list.Addf(diag.OriginOverflow, diag.Line(prev.lineIdx+1),
				"ORG %d has %d lines of content but only %d available before ORG %d",
				prev.addr, contentLines, available, cur.addr)
		}
	}

	return list.Errors()
}
