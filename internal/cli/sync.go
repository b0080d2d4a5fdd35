package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/internal/workflow"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Compose, generate, and deploy content into the project",
	Long: `Compose the selected profiles from all configured sources, run the
per-tool generator, and deploy the result into the project.

Files already present that agentpack does not own are skipped and
reported as conflicts. Files deployed by a previous sync that the
current selection no longer produces are removed.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	syncCmd.Flags().StringSlice("targets", nil, "Restrict deployment to these tool targets")
	syncCmd.Flags().String("prefix", "", "Deploy under this project subdirectory")
}

func runSync(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	root, global, project, err := loadConfigs(cmd)
	if err != nil {
		return err
	}

	dryRun := getBoolFlag(cmd, "dry-run")
	result, err := deps.PipelineFor(project).Sync(cmd.Context(), workflow.SyncOptions{
		ProjectRoot: root,
		Global:      global,
		Project:     project,
		DryRun:      dryRun,
		Targets:     getStringSliceFlag(cmd, "targets"),
		Prefix:      getStringFlag(cmd, "prefix"),
	})
	if err != nil {
		return err
	}

	for _, conflict := range result.Deploy.Conflicts {
		printer.Warnf("skipped %s: %s", conflict.Path, conflict.Reason)
	}
	for _, failure := range result.Deploy.Failures {
		printer.Errorf("failed %s: %v", failure.Path, failure.Err)
	}
	for _, failure := range result.Stale.Failed {
		printer.Errorf("could not remove %s: %v", failure.Path, failure.Err)
	}

	if printer.Verbose() {
		for _, rel := range result.Deploy.Created {
			printer.Detailf("created %s", rel)
		}
		for _, rel := range result.Deploy.Overwritten {
			printer.Detailf("updated %s", rel)
		}
		for _, rel := range result.Stale.Removed {
			printer.Detailf("removed %s", rel)
		}
	}

	if dryRun {
		printer.Infof("dry run: %d file(s) would be deployed, %d conflict(s)",
			len(result.Deploy.Deployed), len(result.Deploy.Conflicts))
		return nil
	}

	printer.Successf("synced %d file(s) (%d created, %d updated, %d removed)",
		len(result.Deploy.Deployed), len(result.Deploy.Created),
		len(result.Deploy.Overwritten), len(result.Stale.Removed))
	return nil
}
