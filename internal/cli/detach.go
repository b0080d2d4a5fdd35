package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/internal/lockfile"
	"github.com/agentpack/agentpack/internal/workflow"
)

var errDetachDeclined = errors.New("detach cancelled")

var detachCmd = &cobra.Command{
	Use:   "detach",
	Short: "Remove every deployed file and the lock record",
	Long: `Remove every file agentpack deployed into the project and delete the
lock record, returning the project to its pre-sync state. Files not
tracked by the lock record are untouched.`,
	Args: cobra.NoArgs,
	RunE: runDetach,
}

func init() {
	rootCmd.AddCommand(detachCmd)

	detachCmd.Flags().Bool("dry-run", false, "Report what would be removed without deleting")
	detachCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}

func runDetach(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	root, err := projectRoot(cmd)
	if err != nil {
		return err
	}

	record := lockfile.NewLedger(root, deps.Logger).Read()
	if record.Empty() {
		printer.Infof("nothing to detach: no files are tracked")
		return nil
	}

	dryRun := getBoolFlag(cmd, "dry-run")
	if !dryRun && !getBoolFlag(cmd, "yes") {
		ok, err := confirmDetach(len(record.Files))
		if err != nil {
			return err
		}
		if !ok {
			return errDetachDeclined
		}
	}

	result, err := workflow.Detach(root, dryRun, deps.Logger)
	if err != nil {
		return err
	}

	for _, failure := range result.Removed.Failed {
		printer.Errorf("could not remove %s: %v", failure.Path, failure.Err)
	}
	if printer.Verbose() {
		for _, rel := range result.Removed.Removed {
			printer.Detailf("removed %s", rel)
		}
	}

	if dryRun {
		printer.Infof("dry run: %d file(s) would be removed", len(result.Removed.Removed))
		return nil
	}
	printer.Successf("detached: %d file(s) removed", len(result.Removed.Removed))
	return nil
}

// confirmDetach asks the user before a destructive detach. A
// non-interactive session cannot confirm and must pass --yes.
func confirmDetach(count int) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("refusing to detach without a terminal; pass --yes to confirm")
	}

	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Remove %d deployed file(s) and the lock record?", count)).
		Affirmative("Detach").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return ok, nil
}
