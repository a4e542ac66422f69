package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/embed"
	"github.com/robertgumeny/rescomp/internal/manifest"
	"github.com/robertgumeny/rescomp/internal/types"
)

// Mismatch describes one resource whose generated pair disagrees with its
// bytecode.
type Mismatch struct {
	Name   string
	Reason string
}

// VerifyError lists every resource that failed verification.
type VerifyError struct {
	Mismatches []Mismatch
}

func (e *VerifyError) Error() string {
	lines := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		lines = append(lines, fmt.Sprintf("  %s: %s", m.Name, m.Reason))
	}
	return fmt.Sprintf("%d resource(s) failed verification:\n%s", len(e.Mismatches), strings.Join(lines, "\n"))
}

// Verify re-reads every resource recorded in the manifest and checks that
// its declaration exports the expected symbol and its definition decodes to
// exactly the bytes of the bytecode file. It returns the number of resources
// checked and a *VerifyError if any disagree.
func Verify(cfg config.Config) (int, error) {
	m, err := manifest.Load(ManifestPath(cfg))
	if err != nil {
		return 0, fmt.Errorf("load manifest: %w", err)
	}

	emb := embed.New(cfg.ResourceDir)
	var mismatches []Mismatch
	for _, e := range m.Resources {
		if reason := verifyOne(emb, cfg, e); reason != "" {
			mismatches = append(mismatches, Mismatch{Name: e.Name, Reason: reason})
		}
	}

	if len(mismatches) > 0 {
		return len(m.Resources), &VerifyError{Mismatches: mismatches}
	}
	return len(m.Resources), nil
}

func verifyOne(emb *embed.Embedder, cfg config.Config, e types.ManifestEntry) string {
	headerPath, sourcePath := emb.Paths(e.Name)

	header, err := os.ReadFile(headerPath)
	if err != nil {
		return describeReadErr(headerPath, err)
	}
	if string(header) != embed.Declaration(e.Name) {
		return fmt.Sprintf("%s does not match the expected declaration", filepath.Base(headerPath))
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return describeReadErr(sourcePath, err)
	}
	d, err := embed.Decode(string(source))
	if err != nil {
		return err.Error()
	}

	want, err := os.ReadFile(filepath.Join(cfg.BytecodeDir, e.Bytecode))
	if err != nil {
		return describeReadErr(e.Bytecode, err)
	}

	switch {
	case d.Symbol != types.Symbol(e.Name):
		return fmt.Sprintf("symbol %s, want %s", d.Symbol, types.Symbol(e.Name))
	case d.Type != e.Type:
		return fmt.Sprintf("type %s, want %s", d.Type, e.Type)
	case d.Length != len(d.Data):
		return fmt.Sprintf("length field %d but %d bytes embedded", d.Length, len(d.Data))
	case d.Length != len(want):
		return fmt.Sprintf("embedded %d bytes but bytecode has %d", d.Length, len(want))
	case !bytes.Equal(d.Data, want):
		return "embedded bytes differ from bytecode"
	}
	return ""
}

func describeReadErr(path string, err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Sprintf("%s is missing", filepath.Base(path))
	}
	return err.Error()
}

// Clean removes everything the manifest says a previous build generated:
// resource pairs, bytecode files and the manifest itself. It returns the
// number of resources removed.
func Clean(cfg config.Config) (int, error) {
	path := ManifestPath(cfg)
	m, err := manifest.Load(path)
	if err != nil {
		return 0, fmt.Errorf("load manifest: %w", err)
	}

	emb := embed.New(cfg.ResourceDir)
	for _, e := range m.Resources {
		if err := emb.Remove(e.Name); err != nil {
			return 0, err
		}
		if e.Bytecode != "" {
			p := filepath.Join(cfg.BytecodeDir, e.Bytecode)
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return 0, fmt.Errorf("remove %s: %w", p, err)
			}
		}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove %s: %w", path, err)
	}
	return len(m.Resources), nil
}
