package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robertgumeny/rescomp/internal/compiler"
	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/metrics"
	"github.com/robertgumeny/rescomp/internal/pipeline"
)

// buildFlags holds CLI flag values that override rescomp.yaml config settings.
// Only flags explicitly changed by the user are applied (checked via cmd.Flags().Changed).
var buildFlags struct {
	force    bool
	jobs     int
	compiler string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile shaders and generate resource sources",
	Long:  "Compile every shader under shader_dir and regenerate the resource pairs in resource_dir.",
	RunE:  runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(c *cobra.Command) {
	c.Flags().BoolVar(&buildFlags.force, "force", false, "recompile every shader, ignoring the manifest")
	c.Flags().IntVarP(&buildFlags.jobs, "jobs", "j", 0, "override jobs from rescomp.yaml")
	c.Flags().StringVar(&buildFlags.compiler, "compiler", "", "override compiler from rescomp.yaml (glslang|naga)")
}

// buildOverrides carries the flags a user explicitly set.
type buildOverrides struct {
	force    bool
	jobs     *int
	compiler *string
}

func runBuild(cmd *cobra.Command, args []string) error {
	projectRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ov := buildOverrides{force: buildFlags.force}
	if cmd.Flags().Changed("jobs") {
		ov.jobs = &buildFlags.jobs
	}
	if cmd.Flags().Changed("compiler") {
		ov.compiler = &buildFlags.compiler
	}

	report, err := buildProject(cmd.Context(), projectRoot, ov)
	if err != nil {
		return err
	}
	metrics.PrintSummary(report)
	return nil
}

// buildProject is the testable core of the build command.
//
// Sequence:
//  1. Load rescomp.yaml (defaults when absent) and apply flag overrides.
//  2. Validate the config and resolve its directories against projectRoot.
//  3. Construct the compiler and check it is available before doing any work.
//  4. Run the pipeline.
func buildProject(ctx context.Context, projectRoot string, ov buildOverrides) (*metrics.Report, error) {
	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if ov.jobs != nil {
		cfg.Jobs = *ov.jobs
	}
	if ov.compiler != nil {
		cfg.Compiler = *ov.compiler
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	resolved := cfg.Resolve(projectRoot)

	comp, err := compiler.New(resolved.Compiler, resolved.CompilerCommand)
	if err != nil {
		return nil, err
	}
	if err := compiler.CheckAvailable(comp); err != nil {
		return nil, fmt.Errorf("dependency check failed: %w", err)
	}

	log.Section(fmt.Sprintf("BUILD %s with %s", relOrAbs(projectRoot, resolved.ShaderDir), comp.Name()))
	return pipeline.Run(ctx, pipeline.Options{
		Config:   resolved,
		Compiler: comp,
		Force:    ov.force,
	})
}

// loadConfig reads rescomp.yaml from projectRoot.
func loadConfig(projectRoot string) (*config.Config, error) {
	cfg, err := config.LoadConfig(filepath.Join(projectRoot, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadResolvedConfig loads, validates and resolves rescomp.yaml.
func loadResolvedConfig(projectRoot string) (config.Config, error) {
	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.Resolve(projectRoot), nil
}

func relOrAbs(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
