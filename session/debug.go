package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chipforge/ecfasm/diag"
)

// DebugManager writes the four per-stage dumps plus the compilation log:
// one "Debug" directory per project, files named "<base>_<STAGE>.<ext>".
type DebugManager struct {
	projectDir string
	baseName   string
	debugDir   string
}

// NewDebugManager creates the debug directory if it doesn't already exist.
func NewDebugManager(projectDir, baseName string) (*DebugManager, error) {
	debugDir := filepath.Join(projectDir, "Debug")
	if err := os.MkdirAll(debugDir, 0750); err != nil {
		return nil, fmt.Errorf("creating debug directory: %w", err)
	}
	return &DebugManager{projectDir: projectDir, baseName: baseName, debugDir: debugDir}, nil
}

// SaveStage writes one named stage's verbatim content.
func (d *DebugManager) SaveStage(stageName, content, extension string) (string, error) {
	filename := fmt.Sprintf("%s_%s.%s", d.baseName, stageName, extension)
	path := filepath.Join(d.debugDir, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// SaveJSONStage marshals data as indented JSON and writes it as a stage.
func (d *DebugManager) SaveJSONStage(stageName string, data interface{}) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return d.SaveStage(stageName, string(b), "json")
}

// SaveCompilationLog writes the LOG dump: a timestamp, the error list, and
// an info list (labels resolved, a human-readable trace, etc).
func (d *DebugManager) SaveCompilationLog(errs []*diag.Diagnostic, warnings []*diag.Warning, info []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "ECF Compilation Log - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	if len(errs) > 0 {
		fmt.Fprintf(&b, "\nERRORS (%d):\n", len(errs))
		for i, e := range errs {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e.Error())
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintf(&b, "\nWARNINGS (%d):\n", len(warnings))
		for i, w := range warnings {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, w.String())
		}
	}

	if len(info) > 0 {
		fmt.Fprintf(&b, "\nINFO (%d):\n", len(info))
		for i, msg := range info {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, msg)
		}
	}

	if len(errs) == 0 && len(warnings) == 0 {
		b.WriteString("\nNo errors or warnings - compilation successful!\n")
	}

	return d.SaveStage("LOG", b.String(), "log")
}

// SaveAll writes every stage dump the tool is configured to emit, plus the
// compilation log. It is the one entry point session.Compile's caller needs.
func (d *DebugManager) SaveAll(result *CompileResult, emitParsed, emitSpaced, emitAddressed, emitImplemented, emitSummary bool) error {
	if emitParsed {
		if _, err := d.SaveStage("PARSED", result.Parsed, "txt"); err != nil {
			return err
		}
	}
	if emitSpaced {
		if _, err := d.SaveStage("SPACED", result.Spaced, "txt"); err != nil {
			return err
		}
	}
	if emitAddressed {
		if _, err := d.SaveStage("ADDRESSED", result.Addressed, "txt"); err != nil {
			return err
		}
	}
	if emitImplemented {
		if _, err := d.SaveStage("IMPLEMENTED", strings.Join(result.Implemented, "\n"), "txt"); err != nil {
			return err
		}
	}
	if emitSummary {
		labels := make(map[string]int, len(result.Labels))
		for _, l := range result.Labels {
			labels[l.Name] = l.Address
		}
		summary := map[string]interface{}{
			"labels_count": len(result.Labels),
			"labels":       labels,
			"bytes_count":  len(result.Bytes),
		}
		if _, err := d.SaveJSONStage("SUMMARY", summary); err != nil {
			return err
		}
	}

	info := make([]string, 0, len(result.Labels)+1)
	info = append(info, fmt.Sprintf("Total labels processed: %d", len(result.Labels)))
	for _, l := range result.Labels {
		info = append(info, fmt.Sprintf("%q -> %d", l.Name, l.Address))
	}

	_, err := d.SaveCompilationLog(result.Diagnostics, result.Warnings, info)
	return err
}
