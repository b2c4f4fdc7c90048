// Package manifest reads the project manifest: a plain key=value file, one
// entry per line. The format predates this tool and is neither TOML nor
// YAML, so it is parsed directly rather than routed through a config
// library.
package manifest

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Manifest holds the recognized project settings plus any unrecognized keys
// preserved verbatim.
type Manifest struct {
	ProjectName        string
	ReadSpace          bool
	WriteSpace         bool
	InstructionSpace   bool
	ProgramCounterSize int
	BusWidth           int
	Extra              map[string]string
}

// Default returns a Manifest with the target's defaults applied
// (ProgramCounterSize=13, BusWidth=8).
func Default() *Manifest {
	return &Manifest{
		ProgramCounterSize: 13,
		BusWidth:           8,
		Extra:              map[string]string{},
	}
}

// Load reads a project manifest file.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided project manifest path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := Default()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		switch key {
		case "ProjectName":
			m.ProjectName = value
		case "ReadSpace":
			m.ReadSpace = parseBool(value)
		case "WriteSpace":
			m.WriteSpace = parseBool(value)
		case "InstructionSpace":
			m.InstructionSpace = parseBool(value)
		case "ProgramCounterSize":
			if n, err := strconv.Atoi(value); err == nil {
				m.ProgramCounterSize = n
			}
		case "BusWidth":
			if n, err := strconv.Atoi(value); err == nil {
				m.BusWidth = n
			}
		default:
			m.Extra[key] = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}
