package compose

import (
	"os"
	"path/filepath"

	"github.com/agentpack/agentpack/internal/defs"
	"github.com/agentpack/agentpack/internal/profile"
)

// Lint runs the advisory scope validator over every parent-scoped shared
// document of the given layers. It returns human-readable warnings and
// never fails: authoring problems only ever warn, the visibility filter
// stays permissive.
func Lint(layers []Layer, registry *profile.Registry) []string {
	var warnings []string

	for _, layer := range layers {
		profilesDir := filepath.Join(layer.Path, defs.ProfilesDir)
		entries, err := os.ReadDir(profilesDir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			parent := entry.Name()
			sharedDir := filepath.Join(profilesDir, parent, defs.SharedDir)
			if _, err := os.Stat(sharedDir); err != nil {
				continue
			}

			scope := profile.Scope(parent)
			subs := registry.SubProfiles(parent)

			for _, entity := range defs.EntityDirs {
				_ = walkFiles(filepath.Join(sharedDir, entity), func(path, _ string) error {
					result := profile.ValidateDoc(path, scope, subs)
					warnings = append(warnings, result.Warnings...)
					return nil
				})
			}

			skills, err := os.ReadDir(filepath.Join(sharedDir, defs.SkillsDir))
			if err != nil {
				continue
			}
			for _, skill := range skills {
				if !skill.IsDir() {
					continue
				}
				manifest := filepath.Join(sharedDir, defs.SkillsDir, skill.Name(), defs.SkillManifest)
				result := profile.ValidateDoc(manifest, scope, subs)
				warnings = append(warnings, result.Warnings...)
			}
		}
	}
	return warnings
}
