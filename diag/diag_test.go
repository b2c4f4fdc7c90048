package diag_test

import (
	"strings"
	"testing"

	"github.com/chipforge/ecfasm/diag"
)

func TestDiagnostic_ErrorIncludesLocation(t *testing.T) {
	d := diag.New(diag.UnknownInstruction, diag.Line(4), "unknown instruction %q", "FOO")
	got := d.Error()
	if !strings.Contains(got, "line 4") {
		t.Errorf("Error() = %q, want it to mention line 4", got)
	}
	if !strings.Contains(got, "FOO") {
		t.Errorf("Error() = %q, want it to mention FOO", got)
	}
}

func TestDiagnostic_ErrorWithoutLocation(t *testing.T) {
	d := diag.New(diag.IO, diag.Location{}, "reading failed")
	got := d.Error()
	if strings.Contains(got, " at ") {
		t.Errorf("Error() = %q, should not mention a location", got)
	}
}

func TestList_AddfAndErrors(t *testing.T) {
	list := &diag.List{}
	if list.HasErrors() {
		t.Fatal("fresh list should have no errors")
	}

	list.Addf(diag.DuplicateLabel, diag.Address(12), "duplicate label %q", "start")
	if !list.HasErrors() {
		t.Fatal("expected HasErrors() to be true after Addf")
	}
	if len(list.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(list.Errors()))
	}
}

func TestList_WarnDoesNotCountAsError(t *testing.T) {
	list := &diag.List{}
	list.Warn(diag.Line(1), "falling back to default")
	if list.HasErrors() {
		t.Error("warnings should not count as errors")
	}
	if len(list.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(list.Warnings))
	}
}

func TestLocation_AddressVsLineFormatting(t *testing.T) {
	if got := diag.Line(3).String(); got != "line 3" {
		t.Errorf("Line(3).String() = %q, want %q", got, "line 3")
	}
	if got := diag.Address(9).String(); got != "addr 9" {
		t.Errorf("Address(9).String() = %q, want %q", got, "addr 9")
	}
}
