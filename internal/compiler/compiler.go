// Package compiler provides the Compiler interface and the shader compilers
// rescomp can drive: the external glslangValidator and the in-process naga
// WGSL compiler.
package compiler

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/robertgumeny/rescomp/internal/types"
)

// Compiler turns one shader source into bytecode.
type Compiler interface {
	// Name identifies the compiler in diagnostics.
	Name() string

	// Compile writes bytecode for shader to shader.BytecodePath and returns
	// that path. A non-nil error means no usable bytecode was produced.
	// *CompileError is reserved for shaders the compiler rejected; an
	// interrupted compile returns an error wrapping ctx.Err().
	Compile(ctx context.Context, shader types.Shader) (string, error)
}

// checker is implemented by compilers with external prerequisites.
type checker interface {
	Check() error
}

// fingerprinter is implemented by compilers whose output depends on
// settings beyond their name.
type fingerprinter interface {
	Fingerprint() string
}

// CompileError reports a shader the compiler rejected.
type CompileError struct {
	Shader   string
	Compiler string
	ExitCode int
	Output   string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "compile %s: %s", e.Shader, e.Compiler)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	} else {
		b.WriteString(" failed")
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

// New returns a Compiler for kind. Supported kinds: "glslang" and "naga".
// command is the glslang invocation prefix and is ignored for naga.
func New(kind, command string) (Compiler, error) {
	switch kind {
	case "glslang":
		return NewGLSLang(command)
	case "naga":
		return NewNaga(), nil
	default:
		return nil, fmt.Errorf("unknown compiler %q: supported compilers are \"glslang\" and \"naga\"", kind)
	}
}

// CheckAvailable verifies c's external prerequisites, such as its
// executable being on PATH. Compilers without any return nil.
func CheckAvailable(c Compiler) error {
	if ch, ok := c.(checker); ok {
		return ch.Check()
	}
	return nil
}

// Fingerprint identifies c together with the settings that shape its
// output. Bytecode recorded under one fingerprint is not reused under
// another.
func Fingerprint(c Compiler) string {
	if f, ok := c.(fingerprinter); ok {
		return f.Fingerprint()
	}
	return c.Name()
}

// removeStale deletes a previous output so a failed compile cannot leave an
// old bytecode file behind for the embedder to pick up.
func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale bytecode %s: %w", path, err)
	}
	return nil
}

// tail returns the last n lines of output.
func tail(output []byte, n int) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
