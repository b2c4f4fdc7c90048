// Package session owns the compiler driver: it threads raw source through
// the four pipeline stages (lexsource -> spacer -> addresser -> implementer),
// aggregates diagnostics, and produces the debug artifacts and final byte
// stream. Project paths, loaded tables, and tool configuration travel in an
// explicit Session value rather than process-wide state.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/addresser"
	"github.com/chipforge/ecfasm/diag"
	"github.com/chipforge/ecfasm/implementer"
	"github.com/chipforge/ecfasm/lexsource"
	"github.com/chipforge/ecfasm/manifest"
	"github.com/chipforge/ecfasm/progress"
	"github.com/chipforge/ecfasm/spacer"
	"github.com/chipforge/ecfasm/tables"
	"github.com/chipforge/ecfasm/toolconfig"
)

// Session bundles everything a single compile needs: the project directory,
// its manifest, its immutable definition tables, and the tool's own
// configuration. A fresh Session is created per compile; nothing here is
// shared mutable state across compiles.
type Session struct {
	ProjectDir string
	ID         string
	Manifest   *manifest.Manifest
	Tables     *tables.DefinitionTables
	Config     *toolconfig.Config
	Broadcast  *progress.Broadcaster // optional; nil disables progress events
}

// New creates a Session. Broadcast may be nil.
func New(projectDir, id string, man *manifest.Manifest, t *tables.DefinitionTables, cfg *toolconfig.Config, bc *progress.Broadcaster) *Session {
	return &Session{
		ProjectDir: projectDir,
		ID:         id,
		Manifest:   man,
		Tables:     t,
		Config:     cfg,
		Broadcast:  bc,
	}
}

// CompileResult is the final artifact of a compile: the output byte stream,
// every stage's textual dump, the resolved label dictionary, and every
// diagnostic and warning raised along the way.
type CompileResult struct {
	Bytes       []int
	Parsed      string
	Spaced      string
	Addressed   string
	Implemented []string
	Labels      []addresser.LabelEntry
	Diagnostics []*diag.Diagnostic
	Warnings    []*diag.Warning
}

// OK reports whether the compile produced a byte stream (no stage aborted).
func (r *CompileResult) OK() bool {
	return r != nil && len(r.Diagnostics) == 0
}

func (s *Session) publish(stage string, diagCount int, done bool) {
	if s.Broadcast == nil {
		return
	}
	s.Broadcast.Publish(progress.StageEvent{SessionID: s.ID, Stage: stage, Diagnostics: diagCount, Done: done})
}

// Compile runs the full pipeline over raw source text. On any stage error
// the pipeline aborts before the next stage runs; no output byte stream is
// produced in that case, but the stages that did succeed remain available on
// the returned CompileResult for diagnosis.
func (s *Session) Compile(source string) *CompileResult {
	result := &CompileResult{}

	parsed, errs := lexsource.Clean(source)
	result.Parsed = parsed
	s.publish("parsed", len(errs), len(errs) == 0)
	if len(errs) > 0 {
		result.Diagnostics = errs
		return result
	}

	spaced, errs := spacer.Space(parsed, s.Tables.Instructions)
	result.Spaced = spaced
	s.publish("spaced", len(errs), len(errs) == 0)
	if len(errs) > 0 {
		result.Diagnostics = errs
		return result
	}

	addrResult, errs := addresser.Address(spaced, s.Tables.Instructions)
	if len(errs) > 0 {
		s.publish("addressed", len(errs), false)
		result.Diagnostics = errs
		return result
	}
	result.Addressed = joinImage(addrResult.Image)
	result.Labels = addrResult.Labels
	s.publish("addressed", 0, true)

	lines, errs := implementer.Implement(addrResult.Image, s.Tables)
	s.publish("implemented", len(errs), len(errs) == 0)
	if len(errs) > 0 {
		result.Diagnostics = errs
		return result
	}

	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	result.Implemented = rendered
	result.Bytes = extractBytes(lines)

	return result
}

func joinImage(img addresser.Image) string {
	return strings.Join([]string(img), "\n")
}

// extractBytes strips comments from the implemented lines to produce the raw
// ROM-image byte stream the external interface contract requires: one
// decimal integer per line, in address order.
func extractBytes(lines []implementer.Line) []int {
	out := make([]int, 0, len(lines))
	for _, l := range lines {
		if l.Value == "" {
			out = append(out, 0)
			continue
		}
		v, err := strconv.Atoi(l.Value)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ByteStream renders the final output exactly per the external interface
// contract: one decimal integer per line.
func (r *CompileResult) ByteStream() string {
	lines := make([]string, len(r.Bytes))
	for i, b := range r.Bytes {
		lines[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(lines, "\n")
}
