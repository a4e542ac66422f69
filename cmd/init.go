package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robertgumeny/rescomp/internal/config"
	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/templates"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new rescomp project",
	Long:  "Scaffold rescomp.yaml, the shader directory and common/Resource.h next to the generated resources.",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	return initProject(dir, initFlags.force)
}

// initProject is the testable core of the init command. It writes
// rescomp.yaml, then creates the configured shader directory and copies
// common/Resource.h into the configured resource directory.
//
// Destination mapping:
//   - init/rescomp.yaml          → {dir}/rescomp.yaml
//   - init/common/**             → {resource_dir}/common/
//
// An existing rescomp.yaml is kept (and its directories honored) unless
// force is set.
func initProject(dir string, force bool) error {
	data, err := templates.Init.ReadFile("init/" + config.FileName)
	if err != nil {
		return fmt.Errorf("read template %s: %w", config.FileName, err)
	}
	if err := writeScaffold(filepath.Join(dir, config.FileName), data, force); err != nil {
		return err
	}

	cfg, err := loadResolvedConfig(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ShaderDir, 0o755); err != nil {
		return fmt.Errorf("create shader directory: %w", err)
	}

	return fs.WalkDir(templates.Init, "init/common", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, "init/")
		dst := filepath.Join(cfg.ResourceDir, filepath.FromSlash(rel))

		content, readErr := templates.Init.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read template %s: %w", path, readErr)
		}
		return writeScaffold(dst, content, force)
	})
}

// writeScaffold writes data to dst, creating parent directories. Existing
// files are skipped with a warning unless force is set.
func writeScaffold(dst string, data []byte, force bool) error {
	if !force {
		if _, statErr := os.Stat(dst); statErr == nil {
			log.Warning(fmt.Sprintf("%s already exists; skipping (use --force to overwrite)", dst))
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	log.Success(fmt.Sprintf("created %s", dst))
	return nil
}
