// Package embed converts a binary file into a pair of generated C++ sources
// that define it as a static Resource.
//
// For a resource named "basic" of type Shader the Embedder writes basic.h,
// declaring Resources::BASIC, and basic.cpp, defining it with the type tag,
// the exact byte length and a byte-array literal of every input byte. The
// text is byte-for-byte stable: the same payload, name and type always
// produce identical files.
package embed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robertgumeny/rescomp/internal/fsutil"
	"github.com/robertgumeny/rescomp/internal/types"
)

// Namespace is the C++ namespace every generated symbol lives in.
const Namespace = "Resources"

// CommonHeader is the include path of the shared Resource class declaration.
const CommonHeader = "common/Resource.h"

// ErrOutputDir is returned when the output directory does not exist. The
// Embedder never creates it; callers prepare it once before embedding.
var ErrOutputDir = errors.New("output directory does not exist")

const declarationFormat = `
#pragma once
#include "%s"
namespace %s {
extern Resource %s;
}
`

const definitionFormat = `
#include "%s.h"
namespace %s {
Resource %s = Resource(
    ResourceType::%s,
    %d,
    new byte[] { %s }
);
}
`

// Declaration returns the header fragment declaring the resource symbol.
func Declaration(name string) string {
	return fmt.Sprintf(declarationFormat, CommonHeader, Namespace, types.Symbol(name))
}

// Definition returns the source fragment defining res.
func Definition(res types.Resource) string {
	return fmt.Sprintf(definitionFormat,
		res.Name, Namespace, res.Symbol(), res.Type, res.Len(), hexList(res.Data))
}

const hexDigits = "0123456789ABCDEF"

// hexList renders data as "0xHH, 0xHH, ..." with uppercase digits.
func hexList(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data)*6 - 2)
	for i, c := range data {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("0x")
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0F])
	}
	return b.String()
}

// Embedder writes generated pairs into Dir.
type Embedder struct {
	Dir string
}

// New returns an Embedder writing into dir.
func New(dir string) *Embedder {
	return &Embedder{Dir: dir}
}

// Paths returns the header and source paths for name.
func (e *Embedder) Paths(name string) (header, source string) {
	return filepath.Join(e.Dir, name+".h"), filepath.Join(e.Dir, name+".cpp")
}

// Embed reads the file at bytecodePath and writes the declaration and
// definition for it, replacing any previous pair for name.
func (e *Embedder) Embed(bytecodePath, name string, typ types.ResourceType) (*types.Artifact, error) {
	if name == "" {
		return nil, fmt.Errorf("embed %s: resource name must not be empty", bytecodePath)
	}

	data, err := os.ReadFile(bytecodePath)
	if err != nil {
		return nil, fmt.Errorf("embed %s: read input: %w", name, err)
	}

	info, err := os.Stat(e.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("embed %s: %w: %s", name, ErrOutputDir, e.Dir)
	}

	res := types.Resource{Name: name, Type: typ, Data: data}
	header, source := e.Paths(name)

	if err := fsutil.WriteAtomic(header, []byte(Declaration(name))); err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}
	if err := fsutil.WriteAtomic(source, []byte(Definition(res))); err != nil {
		return nil, fmt.Errorf("embed %s: %w", name, err)
	}

	return &types.Artifact{
		Name:       name,
		Type:       typ,
		HeaderPath: header,
		SourcePath: source,
		Length:     res.Len(),
	}, nil
}

// Remove deletes the generated pair for name. Missing files are ignored.
func (e *Embedder) Remove(name string) error {
	header, source := e.Paths(name)
	for _, p := range []string{header, source} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// Exists reports whether both files of the pair for name are present.
func (e *Embedder) Exists(name string) bool {
	header, source := e.Paths(name)
	for _, p := range []string{header, source} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Decoded is the content recovered from a definition fragment.
type Decoded struct {
	Symbol string
	Type   types.ResourceType
	Length int
	Data   []byte
}

// Decode parses a definition fragment produced by Definition. It only
// understands the exact layout this package writes.
func Decode(definition string) (*Decoded, error) {
	lines := strings.Split(definition, "\n")
	// "", #include, namespace, Resource X = Resource(, type, length, bytes, );, }, ""
	if len(lines) < 9 {
		return nil, fmt.Errorf("decode: expected at least 9 lines, got %d", len(lines))
	}

	head := lines[3]
	if !strings.HasPrefix(head, "Resource ") || !strings.HasSuffix(head, " = Resource(") {
		return nil, fmt.Errorf("decode: malformed definition line %q", head)
	}
	d := &Decoded{Symbol: strings.TrimSuffix(strings.TrimPrefix(head, "Resource "), " = Resource(")}

	typeLine := strings.TrimSpace(lines[4])
	if !strings.HasPrefix(typeLine, "ResourceType::") || !strings.HasSuffix(typeLine, ",") {
		return nil, fmt.Errorf("decode: malformed type line %q", typeLine)
	}
	d.Type = types.ResourceType(strings.TrimSuffix(strings.TrimPrefix(typeLine, "ResourceType::"), ","))

	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(lines[5]), ","))
	if err != nil {
		return nil, fmt.Errorf("decode: length: %w", err)
	}
	d.Length = n

	body := strings.TrimSpace(lines[6])
	if !strings.HasPrefix(body, "new byte[] {") || !strings.HasSuffix(body, "}") {
		return nil, fmt.Errorf("decode: malformed byte array %q", truncate(body))
	}
	body = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(body, "new byte[] {"), "}"))

	if body != "" {
		items := strings.Split(body, ", ")
		d.Data = make([]byte, 0, len(items))
		for i, item := range items {
			if len(item) != 4 || !strings.HasPrefix(item, "0x") {
				return nil, fmt.Errorf("decode: byte %d: malformed literal %q", i, item)
			}
			v, err := strconv.ParseUint(item[2:], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("decode: byte %d: %w", i, err)
			}
			d.Data = append(d.Data, byte(v))
		}
	}
	return d, nil
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
