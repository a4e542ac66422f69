// Package pipeline runs a rescomp build: discover shaders, compile each one,
// embed the bytecode as a generated resource pair and record the result in
// the manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/robertgumeny/rescomp/internal/compiler"
	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/embed"
	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/manifest"
	"github.com/robertgumeny/rescomp/internal/metrics"
	"github.com/robertgumeny/rescomp/internal/types"
	"github.com/robertgumeny/rescomp/internal/walk"
)

// Options configures a build. Config directories must already be resolved to
// absolute paths (config.Config.Resolve).
type Options struct {
	Config   config.Config
	Compiler compiler.Compiler

	// Force recompiles every shader even when the manifest says its source
	// is unchanged.
	Force bool
}

// ManifestPath returns where the manifest lives for cfg.
func ManifestPath(cfg config.Config) string {
	return filepath.Join(cfg.ResourceDir, manifest.FileName)
}

// Run executes one build.
//
// Sequence:
//  1. Create the bytecode and resource directories (once, before any worker).
//  2. Discover shaders; a name collision aborts before anything is compiled.
//  3. Prune generated pairs of resources whose shader has disappeared.
//  4. Compile and embed each shader, sequentially or with cfg.Jobs workers.
//     A compiler failure removes that resource's stale pair and aborts.
//  5. Save the manifest, also after a failure. It only vouches for shaders
//     that were built or confirmed unchanged, plus those this run never
//     touched; see manifestEntries.
func Run(ctx context.Context, opts Options) (*metrics.Report, error) {
	cfg := opts.Config
	report := metrics.NewReport()

	for _, dir := range []string{cfg.BytecodeDir, cfg.ResourceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	shaders, err := walk.Discover(cfg.ShaderDir, cfg.Extension, cfg.BytecodeDir, cfg.CompiledExtension)
	if err != nil {
		return nil, err
	}
	if len(shaders) == 0 {
		log.Warning(fmt.Sprintf("no %s files found under %s", cfg.Extension, cfg.ShaderDir))
	}

	prev, err := manifest.Load(ManifestPath(cfg))
	if err != nil {
		var pe *manifest.ParseError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		log.Warning(fmt.Sprintf("%v; rebuilding every shader", pe))
		prev = &types.Manifest{Version: manifest.Version}
	}

	emb := embed.New(cfg.ResourceDir)
	typ := types.ResourceType(cfg.ResourceType)
	if !typ.IsKnown() {
		log.Warning(fmt.Sprintf("resource type %q is not declared by %s; the generated sources will only compile if the consuming ResourceType enum has it", typ, embed.CommonHeader))
	}

	current := make(map[string]bool, len(shaders))
	for _, sh := range shaders {
		current[sh.Name] = true
	}
	for _, e := range manifest.Stale(prev, current) {
		if err := prune(emb, cfg, e); err != nil {
			return nil, err
		}
		report.RecordPruned(e.Name)
	}

	b := &builder{
		opts:        opts,
		emb:         emb,
		typ:         typ,
		fingerprint: cfg.Compiler + ":" + compiler.Fingerprint(opts.Compiler),
		prev:        prev,
		report:      report,
	}

	// Each worker writes only its own index.
	results := make([]*types.ManifestEntry, len(shaders))
	touched := make([]bool, len(shaders))

	var buildErr error
	if cfg.Jobs <= 1 {
		for i, sh := range shaders {
			if results[i], buildErr = b.build(ctx, sh, &touched[i]); buildErr != nil {
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Jobs)
		for i, sh := range shaders {
			g.Go(func() error {
				entry, err := b.build(gctx, sh, &touched[i])
				if err != nil {
					return err
				}
				results[i] = entry
				return nil
			})
		}
		buildErr = g.Wait()
	}

	entries := manifestEntries(shaders, results, touched, prev, typ)
	if err := manifest.Save(ManifestPath(cfg), &types.Manifest{Resources: entries}); err != nil {
		if buildErr != nil {
			log.Error(fmt.Sprintf("save manifest: %v", err))
			return nil, buildErr
		}
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	if buildErr != nil {
		return nil, buildErr
	}

	report.Finish()
	return report, nil
}

// manifestEntries returns what the manifest may claim after a run.
//
//   - A built or unchanged shader gets its fresh entry.
//   - A shader whose compile started but did not finish gets an entry with
//     no source digest. It never matches, so the next build recompiles the
//     shader instead of trusting whatever is on disk, and the entry still
//     lets a later build prune the pair if the shader is deleted.
//   - A shader the run never reached keeps its previous entry, since its
//     outputs were not touched.
func manifestEntries(shaders []types.Shader, results []*types.ManifestEntry, touched []bool, prev *types.Manifest, typ types.ResourceType) []types.ManifestEntry {
	entries := make([]types.ManifestEntry, 0, len(shaders))
	for i, sh := range shaders {
		switch {
		case results[i] != nil:
			entries = append(entries, *results[i])
		case touched[i]:
			entries = append(entries, types.ManifestEntry{
				Name:     sh.Name,
				Source:   sh.RelPath,
				Bytecode: filepath.Base(sh.BytecodePath),
				Type:     typ,
			})
		default:
			if old := prev.Find(sh.Name); old != nil {
				entries = append(entries, *old)
			}
		}
	}
	return entries
}

// builder carries the per-run state shared by every shader.
type builder struct {
	opts        Options
	emb         *embed.Embedder
	typ         types.ResourceType
	fingerprint string
	prev        *types.Manifest
	report      *metrics.Report
}

// build compiles and embeds one shader, or skips it when the manifest shows
// identical inputs and both outputs are still on disk. touched is set once
// the shader's outputs may have been modified.
func (b *builder) build(ctx context.Context, sh types.Shader, touched *bool) (*types.ManifestEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest, err := manifest.Digest(sh.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read shader %s: %w", sh.RelPath, err)
	}

	entry := &types.ManifestEntry{
		Name:         sh.Name,
		Source:       sh.RelPath,
		Bytecode:     filepath.Base(sh.BytecodePath),
		Type:         b.typ,
		Compiler:     b.fingerprint,
		SourceSHA256: digest,
	}

	if !b.opts.Force {
		if old := b.prev.Find(sh.Name); old != nil && b.unchanged(old, entry, sh) {
			entry.Length = old.Length
			b.report.RecordSkipped(sh.Name, old.Length)
			log.L().Debug("shader unchanged", zap.String("shader", sh.RelPath))
			return entry, nil
		}
	}

	*touched = true
	bytecode, err := b.opts.Compiler.Compile(ctx, sh)
	if err != nil {
		// Only a rejected shader invalidates its pair. A compile cut short by
		// a sibling's failure or an interrupt leaves the pair for the next
		// build to recompile.
		var ce *compiler.CompileError
		if errors.As(err, &ce) && ctx.Err() == nil {
			if rmErr := b.emb.Remove(sh.Name); rmErr != nil {
				log.Error(fmt.Sprintf("stale resource %s could not be removed: %v", sh.Name, rmErr))
			}
		}
		return nil, err
	}

	art, err := b.emb.Embed(bytecode, sh.Name, b.typ)
	if err != nil {
		return nil, err
	}
	entry.Length = art.Length

	b.report.RecordCompiled(sh.Name, art.Length)
	log.Success(fmt.Sprintf("%s -> %s (%d bytes)", sh.RelPath, filepath.Base(art.SourcePath), art.Length))
	log.L().Debug("embedded resource",
		zap.String("name", sh.Name),
		zap.String("header", art.HeaderPath),
		zap.String("source", art.SourcePath),
		zap.Int("length", art.Length))
	return entry, nil
}

func (b *builder) unchanged(old, cur *types.ManifestEntry, sh types.Shader) bool {
	if old.SourceSHA256 != cur.SourceSHA256 || old.Type != cur.Type || old.Source != cur.Source ||
		old.Bytecode != cur.Bytecode || old.Compiler != cur.Compiler {
		return false
	}
	if _, err := os.Stat(sh.BytecodePath); err != nil {
		return false
	}
	return b.emb.Exists(sh.Name)
}

// prune removes everything a previous build generated for e.
func prune(emb *embed.Embedder, cfg config.Config, e types.ManifestEntry) error {
	if err := emb.Remove(e.Name); err != nil {
		return fmt.Errorf("prune %s: %w", e.Name, err)
	}
	if e.Bytecode != "" {
		p := filepath.Join(cfg.BytecodeDir, e.Bytecode)
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune %s: %w", e.Name, err)
		}
	}
	log.Info(fmt.Sprintf("pruned %s (source %s no longer exists)", e.Name, e.Source))
	return nil
}
