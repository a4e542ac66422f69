// Package manifest provides atomic load and save operations for
// rescomp-manifest.yaml, the record of which resources the last build
// emitted and from which source contents.
//
// All writes are atomic: data is marshalled to a .tmp file in the same
// directory, then os.Rename replaces the target in a single kernel call.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/robertgumeny/rescomp/internal/fsutil"
	"github.com/robertgumeny/rescomp/internal/types"
)

// FileName is the manifest's name inside the resource directory.
const FileName = "rescomp-manifest.yaml"

// Version is the schema version written by Save.
const Version = 1

// ParseError is returned when the manifest exists but cannot be unmarshalled.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the manifest at path. A missing file yields an empty manifest,
// so a first build behaves like a forced one.
func Load(path string) (*types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &types.Manifest{Version: Version}, nil
		}
		return nil, err
	}

	var m types.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if m.Version > Version {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported manifest version %d", m.Version)}
	}
	return &m, nil
}

// Save atomically writes m to path with entries sorted by name.
func Save(path string, m *types.Manifest) error {
	out := types.Manifest{Version: Version, Resources: append([]types.ManifestEntry(nil), m.Resources...)}
	sort.Slice(out.Resources, func(i, j int) bool {
		return out.Resources[i].Name < out.Resources[j].Name
	})

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return fsutil.WriteAtomic(path, data)
}

// Digest returns the hex SHA-256 of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Stale returns the entries of prev whose names are not in current.
func Stale(prev *types.Manifest, current map[string]bool) []types.ManifestEntry {
	var stale []types.ManifestEntry
	for _, e := range prev.Resources {
		if !current[e.Name] {
			stale = append(stale, e)
		}
	}
	return stale
}
