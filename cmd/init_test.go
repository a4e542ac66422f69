package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/templates"
)

func TestInitProject_GeneratesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := initProject(dir, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err != nil {
		t.Errorf("%s not created: %v", config.FileName, err)
	}
	if info, err := os.Stat(filepath.Join(dir, config.DefaultShaderDir)); err != nil || !info.IsDir() {
		t.Errorf("shader directory not created: %v", err)
	}

	header := filepath.Join(dir, filepath.FromSlash(config.DefaultResourceDir), "common", "Resource.h")
	data, err := os.ReadFile(header)
	if err != nil {
		t.Fatalf("Resource.h not created: %v", err)
	}
	want, err := templates.Init.ReadFile("init/common/Resource.h")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(want) {
		t.Error("Resource.h content differs from the embedded template")
	}
}

func TestInitProject_HonorsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	custom := "shader_dir: src/shaders\nresource_dir: gen\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := initProject(dir, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, config.FileName))
	if string(data) != custom {
		t.Error("existing rescomp.yaml was overwritten without --force")
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "shaders")); err != nil {
		t.Errorf("configured shader_dir not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen", "common", "Resource.h")); err != nil {
		t.Errorf("Resource.h not placed in configured resource_dir: %v", err)
	}
}

func TestInitProject_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("jobs: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := initProject(dir, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "compiler: glslang") {
		t.Errorf("--force should replace rescomp.yaml, got:\n%s", data)
	}
}

func TestInitProject_InvalidExistingConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("jobs: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := initProject(dir, false); err == nil {
		t.Fatal("expected error for invalid existing config")
	}
}
