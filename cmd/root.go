package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/robertgumeny/rescomp/internal/log"
)

var version = "v0.1.0"

var rootFlags struct {
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "rescomp",
	Short: "rescomp compiles shaders and embeds them as C++ resources",
	Long: "rescomp walks the shader directory, compiles every shader to bytecode and\n" +
		"generates a <name>.h/<name>.cpp pair per shader embedding the bytecode.\n" +
		"Running rescomp without a subcommand performs a build.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.SetVerbose(rootFlags.verbose)
	},
	RunE: runBuild,
}

// Execute runs the root command and exits 1 on any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal(err.Error())
	}
	_ = log.L().Sync()
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "emit structured debug logs to stderr")
	addBuildFlags(rootCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(cleanCmd)
}
