// Package types defines the shared structs and typed constants used by the
// rescomp pipeline. YAML struct tags match the manifest schema (snake_case
// field names).
package types

import "strings"

// ---------------------------------------------------------------------------
// Typed constants
// ---------------------------------------------------------------------------

// ResourceType is the classification tag written into generated definitions
// as ResourceType::<tag>. The embedder never interprets it.
type ResourceType string

const (
	ResourceTypeNone   ResourceType = "None"
	ResourceTypeShader ResourceType = "Shader"
)

// IsKnown reports whether t is one of the tags declared by common/Resource.h.
// Unknown tags are still emitted verbatim; callers only use this to warn.
func (t ResourceType) IsKnown() bool {
	return t == ResourceTypeNone || t == ResourceTypeShader
}

// ---------------------------------------------------------------------------
// Embedding types
// ---------------------------------------------------------------------------

// Resource is a named, typed binary blob destined for static linkage.
type Resource struct {
	Name string
	Type ResourceType
	Data []byte
}

// Len returns the exact byte count of the payload.
func (r Resource) Len() int {
	return len(r.Data)
}

// Symbol returns the public identifier of the resource: the upper-cased name.
func (r Resource) Symbol() string {
	return Symbol(r.Name)
}

// Symbol upper-cases a resource name into its generated identifier.
func Symbol(name string) string {
	return strings.ToUpper(name)
}

// Shader is a single unit of work discovered by the walker.
//
// RelPath is SourcePath relative to the shader root and is what diagnostics
// print. BytecodePath is where the compiler is told to write its output.
type Shader struct {
	SourcePath   string
	RelPath      string
	Name         string
	BytecodePath string
}

// Artifact describes one emitted declaration/definition pair.
type Artifact struct {
	Name       string
	Type       ResourceType
	HeaderPath string
	SourcePath string
	Length     int
}

// ---------------------------------------------------------------------------
// Manifest types
// ---------------------------------------------------------------------------

// Manifest mirrors rescomp-manifest.yaml, the record of the last build.
type Manifest struct {
	Version   int             `yaml:"version"`
	Resources []ManifestEntry `yaml:"resources"`
}

// ManifestEntry records one resource emitted by a previous build.
// Compiler is the fingerprint of the compiler and flags that produced the
// bytecode; a different fingerprint means the entry is out of date.
type ManifestEntry struct {
	Name         string       `yaml:"name"`
	Source       string       `yaml:"source"`
	Bytecode     string       `yaml:"bytecode"`
	Type         ResourceType `yaml:"type"`
	Length       int          `yaml:"length"`
	Compiler     string       `yaml:"compiler"`
	SourceSHA256 string       `yaml:"source_sha256"`
}

// Find returns the entry for name, or nil when the manifest has none.
func (m *Manifest) Find(name string) *ManifestEntry {
	for i := range m.Resources {
		if m.Resources[i].Name == name {
			return &m.Resources[i]
		}
	}
	return nil
}
