// Package cli provides the Cobra command tree and dependency wiring for
// the agentpack CLI. This file defines the Dependencies struct
// (composition root) that wires the domain modules together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentpack/agentpack/internal/config"
	"github.com/agentpack/agentpack/internal/generate"
	"github.com/agentpack/agentpack/internal/source"
	"github.com/agentpack/agentpack/internal/ui"
	"github.com/agentpack/agentpack/internal/workflow"
)

// Dependencies holds the domain-level services used by CLI commands.
// This is the composition root: the only place where concrete types are
// instantiated and wired together.
type Dependencies struct {
	Resolver source.Resolver
	Logger   *slog.Logger

	// NewRunner builds the generator runner for a project. Tests replace
	// it to avoid spawning the real binary.
	NewRunner func(bin string) generate.Runner
}

// PipelineFor builds the workflow pipeline for one project, honoring
// its configured generator binary.
func (d *Dependencies) PipelineFor(project *config.Project) *workflow.Pipeline {
	return workflow.NewPipeline(d.Resolver, d.NewRunner(project.Generator.Bin), d.Logger)
}

// deps is the global dependencies instance, initialized by
// InitDependencies.
var deps *Dependencies

// InitDependencies creates and wires the domain dependencies. It should
// be called once during application startup.
func InitDependencies() {
	// CLI output goes through the printer; structured logs stay silent
	// unless AGENTPACK_LOG is set.
	logWriter := io.Discard
	level := slog.LevelInfo
	if v := os.Getenv("AGENTPACK_LOG"); v != "" {
		logWriter = os.Stderr
		if v == "debug" {
			level = slog.LevelDebug
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: level}))

	deps = &Dependencies{
		Resolver:  source.NewLocalResolver(),
		Logger:    logger,
		NewRunner: func(bin string) generate.Runner { return generate.NewExecRunner(bin) },
	}
}

// GetDeps returns the current Dependencies instance. Returns nil if
// InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// newPrinter builds the user-facing printer honoring the persistent
// --verbose and --no-color flags.
func newPrinter(cmd *cobra.Command) *ui.Printer {
	var opts []ui.Option
	if getBoolFlag(cmd, "no-color") {
		opts = append(opts, ui.WithNoColor())
	}
	if getBoolFlag(cmd, "verbose") {
		opts = append(opts, ui.WithVerbose())
	}
	opts = append(opts, ui.WithWriter(cmd.OutOrStdout()))
	return ui.NewPrinter(opts...)
}

// projectRoot resolves the project directory from the persistent
// --project flag, falling back to the working directory.
func projectRoot(cmd *cobra.Command) (string, error) {
	if root := getStringFlag(cmd, "project"); root != "" {
		return root, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// loadConfigs loads the global and project configuration for a command
// run. The project config must exist; the global one falls back to
// defaults when absent.
func loadConfigs(cmd *cobra.Command) (string, *config.Global, *config.Project, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return "", nil, nil, err
	}
	global, err := config.LoadGlobal(config.GlobalPath())
	if err != nil {
		return "", nil, nil, err
	}
	project, err := config.LoadProject(root)
	if err != nil {
		return "", nil, nil, err
	}
	return root, global, project, nil
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// getStringSliceFlag retrieves a string slice flag value from the command.
func getStringSliceFlag(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		return nil
	}
	return val
}
