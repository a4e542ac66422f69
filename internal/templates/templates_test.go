package templates_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/templates"
)

func TestInitFS_ContainsExpectedFiles(t *testing.T) {
	for _, path := range []string{"init/rescomp.yaml", "init/common/Resource.h"} {
		f, err := templates.Init.Open(path)
		if err != nil {
			t.Errorf("expected file %q not found in embedded Init FS: %v", path, err)
			continue
		}
		f.Close()
	}
}

func TestResourceHeader_DeclaresShaderType(t *testing.T) {
	data, err := templates.Init.ReadFile("init/common/Resource.h")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"enum class ResourceType", "Shader,", "class Resource", "using byte = uint8_t;"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Resource.h missing %q", want)
		}
	}
}

func TestInitConfig_MatchesDefaults(t *testing.T) {
	data, err := templates.Init.ReadFile("init/rescomp.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("init/rescomp.yaml is not valid YAML: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("scaffolded config drifted from defaults:\n got %+v\nwant %+v", cfg, config.Default())
	}
}
