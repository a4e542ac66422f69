package compiler

import (
	"context"
	"fmt"
	"os"

	"github.com/gogpu/naga"
	"go.uber.org/zap"

	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/types"
)

// Naga compiles WGSL to SPIR-V in process. It needs no toolchain on PATH.
type Naga struct {
	opts naga.CompileOptions
}

// NewNaga returns a Naga compiler with validation enabled.
func NewNaga() *Naga {
	return NewNagaWithOptions(naga.DefaultOptions())
}

// NewNagaWithOptions returns a Naga compiler using opts.
func NewNagaWithOptions(opts naga.CompileOptions) *Naga {
	return &Naga{opts: opts}
}

// Name returns "naga".
func (n *Naga) Name() string {
	return "naga"
}

// Fingerprint includes the SPIR-V target and codegen switches.
func (n *Naga) Fingerprint() string {
	return fmt.Sprintf("naga spirv=%d.%d debug=%t validate=%t",
		n.opts.SPIRVVersion.Major, n.opts.SPIRVVersion.Minor, n.opts.Debug, n.opts.Validate)
}

// Compile reads the WGSL source, compiles it and writes the SPIR-V module
// to shader.BytecodePath.
func (n *Naga) Compile(ctx context.Context, shader types.Shader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := removeStale(shader.BytecodePath); err != nil {
		return "", err
	}

	src, err := os.ReadFile(shader.SourcePath)
	if err != nil {
		return "", fmt.Errorf("compile %s: read source: %w", shader.RelPath, err)
	}

	spv, err := naga.CompileWithOptions(string(src), n.opts)
	if err != nil {
		return "", &CompileError{Shader: shader.RelPath, Compiler: n.Name(), Output: err.Error()}
	}

	if err := os.WriteFile(shader.BytecodePath, spv, 0o644); err != nil {
		return "", fmt.Errorf("compile %s: write bytecode: %w", shader.RelPath, err)
	}

	log.L().Debug("compiled WGSL shader",
		zap.String("shader", shader.RelPath),
		zap.Int("bytes", len(spv)))
	return shader.BytecodePath, nil
}
