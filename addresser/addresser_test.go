package addresser_test

import (
	"strings"
	"testing"

	"github.com/chipforge/ecfasm/addresser"
	"github.com/chipforge/ecfasm/tables"
)

func testInstructions() *tables.InstructionSet {
	return tables.NewInstructionSet([]tables.InstructionDef{
		{Opcode: 1, Name: "NOP", Format: "INS", Length: 1},
		{Opcode: 2, Name: "JMP", Format: "INS_16ADD", Length: 3},
	})
}

func TestAddress_FullPipelineResolvesForwardLabel(t *testing.T) {
	spaced := strings.Join([]string{
		"ORG 0:",
		"JMP",
		"T@lbl",
		"B@lbl",
		"ORG 5:",
		"lbl:",
		"NOP",
	}, "\n")

	result, errs := addresser.Address(spaced, testInstructions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{"JMP", "0", "5", "0", "0", "NOP"}
	if len(result.Image) != len(want) {
		t.Fatalf("image length = %d, want %d (got %v)", len(result.Image), len(want), result.Image)
	}
	for i, w := range want {
		if result.Image[i] != w {
			t.Errorf("cell %d = %q, want %q", i, result.Image[i], w)
		}
	}

	if len(result.Labels) != 1 || result.Labels[0].Name != "lbl" || result.Labels[0].Address != 5 {
		t.Errorf("labels = %+v, want [{lbl 5}]", result.Labels)
	}
}

func TestAddress_AbortsOnOriginError(t *testing.T) {
	spaced := strings.Join([]string{"ORG 5:", "NOP", "ORG 3:", "NOP"}, "\n")

	result, errs := addresser.Address(spaced, testInstructions())
	if result != nil {
		t.Fatalf("expected nil result on abort, got %+v", result)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
}

func TestAddress_EmptySourceYieldsEmptyResult(t *testing.T) {
	result, errs := addresser.Address("   ", testInstructions())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(result.Image) != 0 || len(result.Labels) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
