package lexsource_test

import (
	"strings"
	"testing"

	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/lexsource"
)

func TestClean_StripsCommentsAndWhitespace(t *testing.T) {
	src := "  MOV   42   // load the answer\n\nJMP label\t\t// trailing tabs\n"
	out, errs := lexsource.Clean(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "MOV 42" {
		t.Errorf("line 1 = %q, want %q", lines[0], "MOV 42")
	}
	if lines[1] != "JMP label" {
		t.Errorf("line 2 = %q, want %q", lines[1], "JMP label")
	}
}

func TestClean_BlankLinesDropped(t *testing.T) {
	src := "\n\n   \nMOV 1\n\n"
	out, errs := lexsource.Clean(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out != "MOV 1" {
		t.Errorf("got %q, want %q", out, "MOV 1")
	}
}

func TestClean_HexLiteral(t *testing.T) {
	out, errs := lexsource.Clean("DB 0xFF")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out != "DB 255" {
		t.Errorf("got %q, want %q", out, "DB 255")
	}
}

func TestClean_BinaryLiteral(t *testing.T) {
	out, errs := lexsource.Clean("DB 0b101")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out != "DB 5" {
		t.Errorf("got %q, want %q", out, "DB 5")
	}
}

func TestClean_DecimalPointLiteralRejected(t *testing.T) {
	_, errs := lexsource.Clean("DB 1.5")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Kind != diag.DecimalLiteral {
		t.Errorf("got kind %v, want DecimalLiteral", errs[0].Kind)
	}
}

func TestClean_OverflowingLiteralRejected(t *testing.T) {
	_, errs := lexsource.Clean("DB 99999999999999999999")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Kind != diag.InvalidNumberFormat {
		t.Errorf("got kind %v, want InvalidNumberFormat", errs[0].Kind)
	}
}

func TestClean_AccumulatesAcrossLines(t *testing.T) {
	src := "DB 1.5\nDB 99999999999999999999\nMOV 1\n"
	out, errs := lexsource.Clean(src)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if out != "MOV 1" {
		t.Errorf("valid line should still be retained, got %q", out)
	}
}
