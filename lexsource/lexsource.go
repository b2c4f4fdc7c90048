// Package lexsource implements the compiler's first stage: stripping
// comments, normalizing whitespace, and normalizing numeric literals in raw
// assembly source. It depends on nothing but the source text itself.
package lexsource

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
)

// numberPattern matches decimal, hex (0x/0X) and binary (0b/0B) literals, as
// well as malformed decimal-point literals so they can be rejected
// explicitly rather than silently passed through.
var numberPattern = regexp.MustCompile(`\b(?:0[xX][0-9a-fA-F]+|0[bB][01]+|\d+(?:\.\d+)?)\b`)

// Clean runs the Parser stage over raw source text and returns the cleaned,
// newline-joined source plus any accumulated diagnostics. Parsing always
// runs to completion: a malformed line is recorded and skipped, it does not
// abort the scan.
func Clean(src string) (string, []*diag.Diagnostic) {
	list := &diag.List{}
	lines := strings.Split(src, "\n")
	cleaned := make([]string, 0, len(lines))

	for i, raw := range lines {
		lineNum := i + 1
		line := raw
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = normalizeWhitespace(line)
		if line == "" {
			continue
		}
		converted, ok := convertNumbers(line, lineNum, list)
		if !ok {
			continue
		}
		cleaned = append(cleaned, converted)
	}

	return strings.Join(cleaned, "\n"), list.Errors()
}

func normalizeWhitespace(line string) string {
	line = strings.ReplaceAll(line, "\t", " ")
	for strings.Contains(line, "  ") {
		line = strings.ReplaceAll(line, "  ", " ")
	}
	return strings.TrimSpace(line)
}

func convertNumbers(line string, lineNum int, list *diag.List) (string, bool) {
	ok := true
	result := numberPattern.ReplaceAllStringFunc(line, func(tok string) string {
		if strings.Contains(tok, ".") {
			list.Addf(diag.DecimalLiteral, diag.Line(lineNum), "decimal numbers not supported: %q", tok)
			ok = false
			return tok
		}
		lower := strings.ToLower(tok)
		switch {
		case strings.HasPrefix(lower, "0x"):
			v, err := strconv.ParseInt(tok[2:], 16, 64)
			if err != nil {
				list.Addf(diag.InvalidNumberFormat, diag.Line(lineNum), "invalid number format: %q", tok)
				ok = false
				return tok
			}
			return strconv.FormatInt(v, 10)
		case strings.HasPrefix(lower, "0b"):
			v, err := strconv.ParseInt(tok[2:], 2, 64)
			if err != nil {
				list.Addf(diag.InvalidNumberFormat, diag.Line(lineNum), "invalid number format: %q", tok)
				ok = false
				return tok
			}
			return strconv.FormatInt(v, 10)
		default:
			if _, err := strconv.ParseInt(tok, 10, 64); err != nil {
				list.Addf(diag.InvalidNumberFormat, diag.Line(lineNum), "invalid number format: %q", tok)
				ok = false
				return tok
			}
			return tok
		}
	})
	if !ok {
		return "", false
	}
	return result, true
}
