package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chipforge/ecfasm/manifest"
	"github.com/chipforge/ecfasm/session"
	"github.com/chipforge/ecfasm/tables"
	"github.com/chipforge/ecfasm/toolconfig"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	dir := t.TempDir()

	insPath := writeFile(t, dir, "instructions.tsv",
		"1\tOUT\t2\t0\tINS_WRT\twrite\n"+
			"2\tJMP\t3\t0\tINS_16ADD\tabs jump\n")
	writePath := writeFile(t, dir, "write_addresses.tsv", "5\tLED\tstatus led\n")
	readPath := writeFile(t, dir, "read_addresses.tsv", "3\tSWITCH\tinput switch\n")

	defs, errs := tables.LoadDefinitionTables(writePath, readPath, insPath)
	if len(errs) != 0 {
		t.Fatalf("unexpected table errors: %v", errs)
	}

	return session.New(dir, "test", manifest.Default(), defs, toolconfig.DefaultConfig(), nil)
}

func TestCompile_SimpleWriteInstruction(t *testing.T) {
	sess := testSession(t)
	result := sess.Compile("OUT LED\n")

	if !result.OK() {
		t.Fatalf("expected successful compile, diagnostics: %v", result.Diagnostics)
	}
	want := []int{1, 5}
	if len(result.Bytes) != len(want) {
		t.Fatalf("Bytes = %v, want %v", result.Bytes, want)
	}
	for i, b := range want {
		if result.Bytes[i] != b {
			t.Errorf("Bytes[%d] = %d, want %d", i, result.Bytes[i], b)
		}
	}
	if result.ByteStream() != "1\n5" {
		t.Errorf("ByteStream() = %q, want %q", result.ByteStream(), "1\n5")
	}
}

func TestCompile_UnknownInstructionAbortsAtSpacer(t *testing.T) {
	sess := testSession(t)
	result := sess.Compile("FOO 1\n")

	if result.OK() {
		t.Fatal("expected compile to fail for an unknown instruction")
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", result.Diagnostics)
	}
	if result.Bytes != nil {
		t.Errorf("expected no bytes on failed compile, got %v", result.Bytes)
	}
}

func TestCompile_UnknownWriteNameAbortsAtImplementer(t *testing.T) {
	sess := testSession(t)
	result := sess.Compile("OUT MISSING\n")

	if result.OK() {
		t.Fatal("expected compile to fail for an unresolved write-address name")
	}
	if result.Spaced == "" || result.Addressed == "" {
		t.Error("expected earlier stages to have succeeded and left their dumps populated")
	}
}

func TestCompile_IsDeterministic(t *testing.T) {
	sess := testSession(t)
	first := sess.Compile("OUT LED\n")
	second := sess.Compile("OUT LED\n")

	if first.ByteStream() != second.ByteStream() {
		t.Errorf("two compiles of the same source diverged: %q vs %q", first.ByteStream(), second.ByteStream())
	}
}
