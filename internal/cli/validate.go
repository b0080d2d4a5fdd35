package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/internal/compose"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check source content for profile scoping mistakes",
	Long: `Check every configured source for authoring mistakes in
parent-scoped shared documents, such as front matter naming a
sub-profile the parent does not declare. Problems are reported as
warnings; validation never fails a source.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	_, global, project, err := loadConfigs(cmd)
	if err != nil {
		return err
	}

	layers, registry, err := deps.PipelineFor(project).ResolveSources(cmd.Context(), global, project)
	if err != nil {
		return err
	}

	warnings := compose.Lint(layers, registry)
	for _, warning := range warnings {
		printer.Warnf("%s", warning)
	}
	if len(warnings) == 0 {
		printer.Successf("all sources valid")
		return nil
	}
	printer.Infof("%d warning(s)", len(warnings))
	return nil
}
