package addresser

import (
	"testing"

	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/tables"
)

func testInstr() *tables.InstructionSet {
	return tables.NewInstructionSet([]tables.InstructionDef{
		{Opcode: 1, Name: "NOP", Format: "INS", Length: 1},
		{Opcode: 2, Name: "BRA", Format: "INS_NUM", Length: 2},
		{Opcode: 3, Name: "JMP", Format: "INS_16ADD", Length: 3},
	})
}

func TestCollectLabels_RemovesAndShifts(t *testing.T) {
	img := Image{"NOP", "BRA", "lbl", "lbl:", "NOP"}
	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if labels["lbl"] != 3 {
		t.Errorf("labels[lbl] = %d, want 3", labels["lbl"])
	}
	want := Image{"NOP", "BRA", "lbl", "NOP"}
	assertImage(t, img, want)
}

func TestCollectLabels_DuplicateLabel(t *testing.T) {
	img := Image{"a:", "NOP", "a:", "NOP"}
	_, errs := collectLabels(&img)
	if len(errs) != 1 || errs[0].Kind != diag.DuplicateLabel {
		t.Fatalf("expected 1 DuplicateLabel error, got %v", errs)
	}
}

func TestCollectLabels_InvalidName(t *testing.T) {
	img := Image{"bad-name:", "NOP"}
	_, errs := collectLabels(&img)
	if len(errs) != 1 || errs[0].Kind != diag.InvalidLabelName {
		t.Fatalf("expected 1 InvalidLabelName error, got %v", errs)
	}
}

func TestResolveReferences_ForwardBranch(t *testing.T) {
	img := Image{"NOP", "BRA", "lbl", "lbl:", "NOP"}
	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected collectLabels errors: %v", errs)
	}
	if errs := resolveReferences(img, labels, testInstr()); len(errs) != 0 {
		t.Fatalf("unexpected resolveReferences errors: %v", errs)
	}
	want := Image{"NOP", "BRA", "2", "NOP"}
	assertImage(t, img, want)
}

func TestResolveReferences_BackwardBranch(t *testing.T) {
	img := Image{"lbl:", "NOP", "BRA", "lbl"}
	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected collectLabels errors: %v", errs)
	}
	if errs := resolveReferences(img, labels, testInstr()); len(errs) != 0 {
		t.Fatalf("unexpected resolveReferences errors: %v", errs)
	}
	want := Image{"NOP", "BRA", "3"}
	assertImage(t, img, want)
}

func TestResolveReferences_PrefixedHiLoBytes(t *testing.T) {
	img := Image{"JMP", "T@lbl", "B@lbl", "0", "0", "lbl:", "NOP"}
	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected collectLabels errors: %v", errs)
	}
	if labels["lbl"] != 5 {
		t.Fatalf("labels[lbl] = %d, want 5", labels["lbl"])
	}
	if errs := resolveReferences(img, labels, testInstr()); len(errs) != 0 {
		t.Fatalf("unexpected resolveReferences errors: %v", errs)
	}
	want := Image{"JMP", "0", "5", "0", "0", "NOP"}
	assertImage(t, img, want)
}

func TestResolveReferences_UndefinedPrefixedLabel(t *testing.T) {
	img := Image{"JMP", "T@missing", "B@missing"}
	labels, _ := collectLabels(&img)
	errs := resolveReferences(img, labels, testInstr())
	if len(errs) != 2 {
		t.Fatalf("expected 2 UndefinedLabel errors, got %v", errs)
	}
	for _, e := range errs {
		if e.Kind != diag.UndefinedLabel {
			t.Errorf("unexpected error kind %v", e.Kind)
		}
	}
}

func TestResolveReferences_UndefinedBareNameLeftVerbatim(t *testing.T) {
	// a bare identifier that names no label does not qualify as a
	// reference; it survives untouched and the implementer emits it verbatim
	img := Image{"NOP", "BRA", "missing"}
	labels, _ := collectLabels(&img)
	if errs := resolveReferences(img, labels, testInstr()); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if img[2] != "missing" {
		t.Errorf("img[2] = %q, want %q", img[2], "missing")
	}
}

func TestResolveReferences_UnresolvedInstructionLength(t *testing.T) {
	img := Image{"UNKNOWNOP", "lbl", "lbl:", "NOP"}
	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected collectLabels errors: %v", errs)
	}
	errs = resolveReferences(img, labels, testInstr())
	if len(errs) != 1 || errs[0].Kind != diag.UnresolvedInstructionLength {
		t.Fatalf("expected 1 UnresolvedInstructionLength error, got %v", errs)
	}
}

func TestResolveReferences_OffsetOutOfRange(t *testing.T) {
	// a branch target 300 cells away overflows the 8-bit offset range [0,255]
	cells := make([]string, 0, 302)
	cells = append(cells, "NOP", "BRA", "far")
	for i := 0; i < 300; i++ {
		cells = append(cells, "NOP")
	}
	cells = append(cells, "far:")
	img := Image(cells)

	labels, errs := collectLabels(&img)
	if len(errs) != 0 {
		t.Fatalf("unexpected collectLabels errors: %v", errs)
	}
	errs = resolveReferences(img, labels, testInstr())
	if len(errs) != 1 || errs[0].Kind != diag.OffsetOutOfRange {
		t.Fatalf("expected 1 OffsetOutOfRange error, got %v", errs)
	}
}
