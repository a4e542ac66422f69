package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/types"
)

// outputTailLines bounds how much compiler output is kept in a CompileError.
const outputTailLines = 50

// GLSLang drives the Khronos reference compiler. Each shader is compiled
// with
//
//	<command...> -V <source> -o <bytecode>
//
// using exec.CommandContext with an explicit args slice; no shell eval.
type GLSLang struct {
	bin  string
	args []string
}

// NewGLSLang parses command with shell-style quoting into an executable and
// leading arguments, e.g. `glslangValidator --target-env vulkan1.2`.
func NewGLSLang(command string) (*GLSLang, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil, fmt.Errorf("compiler command must not be empty or whitespace")
	}
	parts, err := splitShellArgs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse compiler command: %w", err)
	}
	return &GLSLang{bin: parts[0], args: parts[1:]}, nil
}

// Name returns the executable being invoked.
func (g *GLSLang) Name() string {
	return g.bin
}

// Fingerprint returns the full argv prefix, so changing a flag such as
// --target-env invalidates previously compiled bytecode.
func (g *GLSLang) Fingerprint() string {
	return fmt.Sprintf("glslang %q", append([]string{g.bin}, g.args...))
}

// Check reports an error if the executable cannot be resolved on PATH.
func (g *GLSLang) Check() error {
	if _, err := exec.LookPath(g.bin); err != nil {
		return fmt.Errorf("shader compiler %q not found on PATH: %w", g.bin, err)
	}
	return nil
}

// Compile runs the compiler for shader and verifies it both exited zero and
// wrote its output file.
func (g *GLSLang) Compile(ctx context.Context, shader types.Shader) (string, error) {
	if err := removeStale(shader.BytecodePath); err != nil {
		return "", err
	}

	args := append(append([]string{}, g.args...), "-V", shader.SourcePath, "-o", shader.BytecodePath)
	cmd := exec.CommandContext(ctx, g.bin, args...)

	log.L().Debug("running shader compiler",
		zap.String("shader", shader.RelPath),
		zap.Strings("argv", cmd.Args))

	out, err := cmd.CombinedOutput()
	if err != nil {
		// A killed process is not a verdict on the shader.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("compile %s: %w", shader.RelPath, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CompileError{
				Shader:   shader.RelPath,
				Compiler: g.bin,
				ExitCode: exitErr.ExitCode(),
				Output:   tail(out, outputTailLines),
			}
		}
		return "", fmt.Errorf("compile %s: start %q: %w", shader.RelPath, g.bin, err)
	}

	if _, err := os.Stat(shader.BytecodePath); err != nil {
		return "", &CompileError{
			Shader:   shader.RelPath,
			Compiler: g.bin,
			Output:   fmt.Sprintf("no bytecode written to %s\n%s", shader.BytecodePath, tail(out, outputTailLines)),
		}
	}
	return shader.BytecodePath, nil
}

// splitShellArgs tokenizes s like a POSIX shell, respecting single and double
// quotes and backslash escapes outside quotes. No variable expansion or
// globbing is performed. This allows compiler commands in rescomp.yaml such as:
//
//	"/opt/Vulkan SDK/bin/glslangValidator" --target-env vulkan1.2
//
// to be parsed correctly instead of being fragmented by whitespace splitting.
func splitShellArgs(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inSingle := false
	inDouble := false
	quoted := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inSingle:
			if ch == '\'' {
				inSingle = false
			} else {
				cur.WriteByte(ch)
			}
		case inDouble:
			if ch == '\\' && i+1 < len(s) {
				next := s[i+1]
				// Characters escapable inside double quotes per POSIX
				if next == '"' || next == '\\' || next == '$' || next == '`' || next == '\n' {
					cur.WriteByte(next)
					i++
				} else {
					cur.WriteByte(ch)
				}
			} else if ch == '"' {
				inDouble = false
			} else {
				cur.WriteByte(ch)
			}
		case ch == '\\':
			if i+1 < len(s) {
				cur.WriteByte(s[i+1])
				i++
			}
		case ch == '\'':
			inSingle = true
			quoted = true
		case ch == '"':
			inDouble = true
			quoted = true
		case ch == ' ' || ch == '\t':
			if cur.Len() > 0 || quoted {
				args = append(args, cur.String())
				cur.Reset()
				quoted = false
			}
		default:
			cur.WriteByte(ch)
		}
	}

	if inSingle {
		return nil, fmt.Errorf("unterminated single quote in compiler command")
	}
	if inDouble {
		return nil, fmt.Errorf("unterminated double quote in compiler command")
	}
	if cur.Len() > 0 || quoted {
		args = append(args, cur.String())
	}

	return args, nil
}
