package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agentpack/agentpack/internal/defs"
)

// GlobalPath returns the default location of the global configuration
// file. Used by the CLI layer only; the result is threaded explicitly
// into the pipeline.
func GlobalPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "agentpack", defs.ConfigYAML)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agentpack", defs.ConfigYAML)
}

// LoadGlobal reads the global configuration from path. A missing file
// yields defaults; malformed content is a configuration error.
func LoadGlobal(path string) (*Global, error) {
	cfg := NewDefaultGlobal()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("global config not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYAML, path)
	}
	if cfg.SourcePosition == "" {
		cfg.SourcePosition = DefaultSourcePosition
	}

	if err := validateGlobal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject reads the project configuration under projectRoot. Absence
// means the project was never initialized; that aborts before any
// mutation.
func LoadProject(projectRoot string) (*Project, error) {
	path := filepath.Join(filepath.Clean(projectRoot), defs.PackDir, defs.ConfigYAML)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Project
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYAML, path)
	}

	if err := validateProject(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
