package config

import "github.com/agentpack/agentpack/internal/source"

// Global is the user-level configuration shared by every project.
type Global struct {
	// Sources are content sources available to all projects.
	Sources []source.Descriptor `yaml:"sources"`

	// SourcePosition controls whether global sources sit before or after
	// a project's own sources in the merged list.
	SourcePosition source.Position `yaml:"source_position"`
}

// GeneratorConfig selects and tunes the external generator.
type GeneratorConfig struct {
	// Bin is the generator binary. Empty selects the default.
	Bin string `yaml:"bin"`

	// Categories are the feature categories passed to the generator.
	Categories []string `yaml:"categories"`
}

// Project is the per-project configuration under .agentpack/config.yaml.
type Project struct {
	// Name is a human label for the project.
	Name string `yaml:"name"`

	// Sources are the project's own content sources.
	Sources []source.Descriptor `yaml:"sources"`

	// Profiles are the raw profile specifiers selected for this project.
	Profiles []string `yaml:"profiles"`

	// Targets are the tool targets to generate and deploy for.
	Targets []string `yaml:"targets"`

	// OutputPrefix routes deployed files under a project subdirectory.
	OutputPrefix string `yaml:"output_prefix"`

	// Generator configures the external generator invocation.
	Generator GeneratorConfig `yaml:"generator"`
}
