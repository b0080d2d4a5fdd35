package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles declared across all configured sources",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	_, global, project, err := loadConfigs(cmd)
	if err != nil {
		return err
	}

	_, registry, err := deps.PipelineFor(project).ResolveSources(cmd.Context(), global, project)
	if err != nil {
		return err
	}

	names := registry.Names()
	if len(names) == 0 {
		printer.Infof("no profiles declared by any source")
		return nil
	}

	selected := registry.Expand(project.Profiles)
	active := make(map[string]bool, len(selected))
	for _, spec := range selected {
		active[spec.String()] = true
	}

	for _, name := range names {
		def, _ := registry.Lookup(name)
		mark := " "
		if active[name] || slices.Contains(project.Profiles, name) {
			mark = "*"
		}
		if def.Description != "" {
			printer.Infof("%s %s: %s", mark, name, def.Description)
		} else {
			printer.Infof("%s %s", mark, name)
		}
		for _, sub := range def.Sub {
			subMark := " "
			if active[name+":"+sub.Name] {
				subMark = "*"
			}
			if sub.Description != "" {
				printer.Infof("  %s %s:%s: %s", subMark, name, sub.Name, sub.Description)
			} else {
				printer.Infof("  %s %s:%s", subMark, name, sub.Name)
			}
		}
	}
	return nil
}
