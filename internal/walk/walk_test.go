package walk_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robertgumeny/rescomp/internal/walk"
)

// touch creates an empty file at root/rel, creating parent directories.
func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("void main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResourceName(t *testing.T) {
	tests := map[string]string{
		"basic.glsl":     "basic",
		"glow.frag.glsl": "glow",
		"dir/fx.glsl":    "fx",
		"noext":          "noext",
		".hidden.glsl":   "",
	}
	for in, want := range tests {
		if got := walk.ResourceName(in); got != want {
			t.Errorf("ResourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDiscover_FindsNestedShadersInOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "basic.glsl")
	touch(t, root, "post/bloom.glsl")
	touch(t, root, "post/deep/tonemap.glsl")
	touch(t, root, "README.md")
	touch(t, root, "lighting.wgsl")

	dump := filepath.Join(t.TempDir(), "dump")
	shaders, err := walk.Discover(root, ".glsl", dump, ".spv")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	var names []string
	for _, s := range shaders {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "basic,bloom,tonemap" {
		t.Errorf("names = %s, want basic,bloom,tonemap", got)
	}

	bloom := shaders[1]
	if bloom.RelPath != "post/bloom.glsl" {
		t.Errorf("RelPath = %q", bloom.RelPath)
	}
	if bloom.SourcePath != filepath.Join(root, "post", "bloom.glsl") {
		t.Errorf("SourcePath = %q", bloom.SourcePath)
	}
	if bloom.BytecodePath != filepath.Join(dump, "bloom.glsl.spv") {
		t.Errorf("BytecodePath = %q", bloom.BytecodePath)
	}
}

func TestDiscover_EmptyTree(t *testing.T) {
	shaders, err := walk.Discover(t.TempDir(), ".glsl", t.TempDir(), ".spv")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(shaders) != 0 {
		t.Errorf("expected no shaders, got %d", len(shaders))
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ShaderCode")
	_, err := walk.Discover(root, ".glsl", t.TempDir(), ".spv")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !strings.Contains(err.Error(), root) {
		t.Errorf("error should name the root, got %v", err)
	}
}

func TestDiscover_CollisionAcrossSubdirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/glow.glsl")
	touch(t, root, "b/glow.glsl")

	_, err := walk.Discover(root, ".glsl", t.TempDir(), ".spv")
	var ce *walk.CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
	if ce.Name != "glow" || ce.First != "a/glow.glsl" || ce.Second != "b/glow.glsl" {
		t.Errorf("unexpected collision %+v", ce)
	}
	for _, want := range []string{"a/glow.glsl", "b/glow.glsl", "GLOW"} {
		if !strings.Contains(ce.Error(), want) {
			t.Errorf("diagnostic missing %q: %s", want, ce.Error())
		}
	}
}

func TestDiscover_CollisionIsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Glow.glsl")
	touch(t, root, "sub/glow.frag.glsl")

	_, err := walk.Discover(root, ".glsl", t.TempDir(), ".spv")
	var ce *walk.CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CollisionError, got %v", err)
	}
}
