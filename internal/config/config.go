// Package config provides Config loading for rescomp.
// Config is read from rescomp.yaml in the project root. A missing file returns
// sane defaults without error. CLI flags (bound via cobra) override config file
// values at the highest precedence by mutating the returned struct after loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "rescomp.yaml"

// Default values for Config fields. The directory layout matches the
// Intermediate/ tree the consuming C++ build expects.
const (
	DefaultShaderDir         = "ShaderCode"
	DefaultBytecodeDir       = "Intermediate/ShaderDump"
	DefaultResourceDir       = "Intermediate/Resources"
	DefaultExtension         = ".glsl"
	DefaultCompiledExtension = ".spv"
	DefaultCompiler          = "glslang"
	DefaultCompilerCommand   = "glslangValidator"
	DefaultResourceType      = "Shader"
	DefaultJobs              = 1
)

// Config holds all configuration for a build. Directory fields are relative
// to the project root until Resolve is called.
type Config struct {
	ShaderDir         string `yaml:"shader_dir"`
	BytecodeDir       string `yaml:"bytecode_dir"`
	ResourceDir       string `yaml:"resource_dir"`
	Extension         string `yaml:"extension"`
	CompiledExtension string `yaml:"compiled_extension"`
	Compiler          string `yaml:"compiler"`
	CompilerCommand   string `yaml:"compiler_command"`
	ResourceType      string `yaml:"resource_type"`
	Jobs              int    `yaml:"jobs"`
}

// Default returns a Config populated with sane defaults.
func Default() Config {
	return Config{
		ShaderDir:         DefaultShaderDir,
		BytecodeDir:       DefaultBytecodeDir,
		ResourceDir:       DefaultResourceDir,
		Extension:         DefaultExtension,
		CompiledExtension: DefaultCompiledExtension,
		Compiler:          DefaultCompiler,
		CompilerCommand:   DefaultCompilerCommand,
		ResourceType:      DefaultResourceType,
		Jobs:              DefaultJobs,
	}
}

// partialConfig is used during YAML parsing to distinguish between a field
// being absent (nil pointer) and a field being explicitly set to its zero value.
type partialConfig struct {
	ShaderDir         *string `yaml:"shader_dir"`
	BytecodeDir       *string `yaml:"bytecode_dir"`
	ResourceDir       *string `yaml:"resource_dir"`
	Extension         *string `yaml:"extension"`
	CompiledExtension *string `yaml:"compiled_extension"`
	Compiler          *string `yaml:"compiler"`
	CompilerCommand   *string `yaml:"compiler_command"`
	ResourceType      *string `yaml:"resource_type"`
	Jobs              *int    `yaml:"jobs"`
}

// LoadConfig reads rescomp.yaml at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// Fields absent from the file are filled with their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, err
	}

	var partial partialConfig
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	setString(&cfg.ShaderDir, partial.ShaderDir)
	setString(&cfg.BytecodeDir, partial.BytecodeDir)
	setString(&cfg.ResourceDir, partial.ResourceDir)
	setString(&cfg.Extension, partial.Extension)
	setString(&cfg.CompiledExtension, partial.CompiledExtension)
	setString(&cfg.Compiler, partial.Compiler)
	setString(&cfg.CompilerCommand, partial.CompilerCommand)
	setString(&cfg.ResourceType, partial.ResourceType)
	if partial.Jobs != nil {
		cfg.Jobs = *partial.Jobs
	}

	return &cfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Jobs < 1 {
		problems = append(problems, fmt.Sprintf("jobs must be at least 1, got %d", c.Jobs))
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		problems = append(problems, fmt.Sprintf("extension must look like \".glsl\", got %q", c.Extension))
	}
	if c.CompiledExtension == "" {
		problems = append(problems, "compiled_extension must not be empty")
	}
	switch c.Compiler {
	case "glslang":
		if strings.TrimSpace(c.CompilerCommand) == "" {
			problems = append(problems, "compiler_command must not be empty for the glslang compiler")
		}
	case "naga":
	default:
		problems = append(problems, fmt.Sprintf("unknown compiler %q: supported compilers are \"glslang\" and \"naga\"", c.Compiler))
	}
	if c.ResourceType == "" {
		problems = append(problems, "resource_type must not be empty")
	}
	for _, d := range []struct{ key, val string }{
		{"shader_dir", c.ShaderDir},
		{"bytecode_dir", c.BytecodeDir},
		{"resource_dir", c.ResourceDir},
	} {
		if d.val == "" {
			problems = append(problems, d.key+" must not be empty")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Resolve returns a copy of c whose directory fields are absolute, joining
// relative ones onto root.
func (c Config) Resolve(root string) Config {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, p)
	}
	c.ShaderDir = abs(c.ShaderDir)
	c.BytecodeDir = abs(c.BytecodeDir)
	c.ResourceDir = abs(c.ResourceDir)
	return c
}
