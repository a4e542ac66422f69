package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robertgumeny/rescomp/internal/manifest"
	"github.com/robertgumeny/rescomp/internal/types"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := manifest.Load(filepath.Join(t.TempDir(), manifest.FileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Resources) != 0 {
		t.Errorf("expected empty manifest, got %d entries", len(m.Resources))
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifest.FileName)
	if err := os.WriteFile(path, []byte("resources: {not: [a list\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := manifest.Load(path)
	var pe *manifest.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
}

func TestLoad_FutureVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifest.FileName)
	if err := os.WriteFile(path, []byte("version: 99\nresources: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var pe *manifest.ParseError
	if _, err := manifest.Load(path); !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for unsupported version, got %v", err)
	}
}

func TestSaveLoad_SortedAndAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, manifest.FileName)

	m := &types.Manifest{Resources: []types.ManifestEntry{
		{Name: "zeta", Source: "post/zeta.glsl", Type: types.ResourceTypeShader, Length: 12, SourceSHA256: "bb"},
		{Name: "alpha", Source: "alpha.glsl", Type: types.ResourceTypeShader, Length: 3, SourceSHA256: "aa"},
	}}
	if err := manifest.Save(path, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m.Resources[0].Name != "zeta" {
		t.Error("Save must not reorder the caller's slice")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	got, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != manifest.Version {
		t.Errorf("Version = %d", got.Version)
	}
	if len(got.Resources) != 2 || got.Resources[0].Name != "alpha" || got.Resources[1].Name != "zeta" {
		t.Fatalf("unexpected resources %+v", got.Resources)
	}
	if got.Resources[1].Source != "post/zeta.glsl" || got.Resources[1].Length != 12 {
		t.Errorf("entry fields not preserved: %+v", got.Resources[1])
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "source_sha256: aa") {
		t.Errorf("expected snake_case keys in YAML, got:\n%s", raw)
	}
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.glsl")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := manifest.Digest(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Digest = %s, want %s", got, want)
	}

	if _, err := manifest.Digest(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStale(t *testing.T) {
	prev := &types.Manifest{Resources: []types.ManifestEntry{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	stale := manifest.Stale(prev, map[string]bool{"a": true, "c": true, "d": true})
	if len(stale) != 1 || stale[0].Name != "b" {
		t.Errorf("Stale = %+v, want [b]", stale)
	}
}
