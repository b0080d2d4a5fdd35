package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "agentpack",
	Short: "agentpack: profile-scoped content composition for AI coding tools",
	Long: `agentpack composes instruction content from one or more sources,
filters it by the profiles a project selects, runs the per-tool
generator over the merged tree, and deploys the result into the
project while tracking every file it owns in a lock record.

Files it did not create are never overwritten, and files it no
longer produces are cleaned up on the next sync.`,
	Version:      version.GetVersion(),
	SilenceUsage: true,
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	InitDependencies()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("agentpack %s\n", version.GetFullVersion()))

	rootCmd.PersistentFlags().Bool("verbose", false, "Print per-file detail")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable styled output")
	rootCmd.PersistentFlags().String("project", "", "Project root directory (default: current directory)")
}
