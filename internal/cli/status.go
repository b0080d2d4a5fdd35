package cli

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/internal/diff"
	"github.com/agentpack/agentpack/internal/lockfile"
	"github.com/agentpack/agentpack/internal/ui"
	"github.com/agentpack/agentpack/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployment state of the project",
	Long: `Show what agentpack currently owns in the project: the lock record
summary, tracked files that have gone missing, and optionally a full
drift report against freshly generated output.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("diff", false, "Regenerate and show content drift per file")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	root, err := projectRoot(cmd)
	if err != nil {
		return err
	}

	record := lockfile.NewLedger(root, deps.Logger).Read()
	if record.Empty() {
		printer.Infof("no deployment: the project has no lock record")
		return nil
	}

	printer.Infof("lock format %s", record.Version)
	printer.Infof("created     %s", record.Created.Format("2006-01-02 15:04:05"))
	printer.Infof("last synced %s", record.LastSynced.Format("2006-01-02 15:04:05"))
	printer.Infof("tracked     %d file(s)", len(record.Files))

	missing := 0
	for _, rel := range record.Files {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			printer.Warnf("missing: %s", rel)
			missing++
		}
	}
	if missing == 0 {
		printer.Successf("all tracked files present")
	}

	if !getBoolFlag(cmd, "diff") {
		return nil
	}
	return reportDrift(cmd, printer, root, record)
}

// reportDrift regenerates into a scratch area and compares the result
// against what is on disk.
func reportDrift(cmd *cobra.Command, printer *ui.Printer, root string, record *lockfile.Record) error {
	_, global, project, err := loadConfigs(cmd)
	if err != nil {
		return err
	}

	outDir, cleanup, err := deps.PipelineFor(project).Preview(cmd.Context(), workflow.SyncOptions{
		ProjectRoot: root,
		Global:      global,
		Project:     project,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	generated, err := generatedPaths(outDir, project.OutputPrefix)
	if err != nil {
		return err
	}

	drifted := 0
	for _, rel := range generated {
		current, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			printer.Warnf("would create %s", rel)
			drifted++
			continue
		}
		fresh, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(stripPrefix(rel, project.OutputPrefix))))
		if err != nil {
			return err
		}
		if report := diff.Unified(rel, current, fresh); report != "" {
			printer.Warnf("drift in %s", rel)
			printer.Infof("%s", report)
			drifted++
		}
	}

	generatedSet := make(map[string]bool, len(generated))
	for _, rel := range generated {
		generatedSet[rel] = true
	}
	for _, rel := range record.Files {
		if !generatedSet[rel] {
			printer.Warnf("would remove %s", rel)
			drifted++
		}
	}

	if drifted == 0 {
		printer.Successf("no drift: deployed files match generated output")
	}
	return nil
}

// generatedPaths lists the project-relative destinations the generated
// tree would deploy to, mirroring the deployer's path mapping.
func generatedPaths(outDir, prefix string) ([]string, error) {
	var rels []string
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tool := entry.Name()
		toolDir := filepath.Join(outDir, tool)
		err := filepath.WalkDir(toolDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(toolDir, p)
			if err != nil {
				return err
			}
			rels = append(rels, path.Join(prefix, tool, filepath.ToSlash(rel)))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(rels)
	return rels, nil
}

// stripPrefix undoes the output prefix so a destination path maps back
// into the generated tree.
func stripPrefix(rel, prefix string) string {
	if prefix == "" {
		return rel
	}
	trimmed := rel[len(prefix):]
	if len(trimmed) > 0 && trimmed[0] == '/' {
		trimmed = trimmed[1:]
	}
	return trimmed
}
