package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robertgumeny/rescomp/internal/log"
	"github.com/robertgumeny/rescomp/internal/pipeline"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check generated resources against their bytecode",
	Long:  "Decode every generated definition recorded in the manifest and compare it byte-for-byte with its bytecode file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		return verifyProject(dir)
	},
}

func verifyProject(dir string) error {
	cfg, err := loadResolvedConfig(dir)
	if err != nil {
		return err
	}
	n, err := pipeline.Verify(cfg)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warning("manifest lists no resources; run rescomp build first")
		return nil
	}
	log.Success(fmt.Sprintf("%d resource(s) match their bytecode", n))
	return nil
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated resources and bytecode",
	Long:  "Remove the resource pairs, bytecode files and manifest written by the last build.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		return cleanProject(dir)
	},
}

func cleanProject(dir string) error {
	cfg, err := loadResolvedConfig(dir)
	if err != nil {
		return err
	}
	n, err := pipeline.Clean(cfg)
	if err != nil {
		return err
	}
	log.Success(fmt.Sprintf("removed %d resource(s)", n))
	return nil
}
