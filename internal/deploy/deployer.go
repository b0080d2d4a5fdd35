// Package deploy copies generated per-tool output into a project,
// consulting the prior lock record to keep foreign files safe. A
// destination that exists but is not tracked belongs to the user and is
// never overwritten; it is reported as a conflict instead.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentpack/agentpack/internal/lockfile"
)

// ErrPathEscape indicates a generated path would land outside the project
// root.
var ErrPathEscape = errors.New("deploy: path escapes project root")

// Options tune one deployment pass.
type Options struct {
	// DryRun records what would be deployed without writing anything.
	DryRun bool
	// Targets restricts deployment to these per-tool subdirectories of
	// the generated tree. Empty means all.
	Targets []string
	// Prefix routes every deployed path under a project subdirectory,
	// so different profile groups can live side by side.
	Prefix string
}

// Conflict is a destination that exists but is not owned by the tool.
type Conflict struct {
	Path   string
	Reason string
}

// Failure pairs a path with its copy error.
type Failure struct {
	Path string
	Err  error
}

// Result reports a deployment pass. Deployed holds project-relative
// destination paths; Skipped and Conflicts both name foreign files that
// were protected.
type Result struct {
	Deployed    []string
	Skipped     []string
	Conflicts   []Conflict
	Created     []string
	Overwritten []string
	Failures    []Failure
}

// Deployer copies generated output into a project.
type Deployer struct {
	log *slog.Logger
}

// New creates a Deployer. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Deployer {
	if log == nil {
		log = slog.Default()
	}
	return &Deployer{log: log}
}

// Deploy walks the generated tree (one subdirectory per tool target) and
// copies every file into projectRoot. Conflicts are skipped with a
// warning, per-file copy errors are collected, and the batch always runs
// to completion.
func (d *Deployer) Deploy(ctx context.Context, generatedDir, projectRoot string, prior *lockfile.Record, opts Options) (*Result, error) {
	projectRoot = filepath.Clean(projectRoot)
	result := &Result{}

	entries, err := os.ReadDir(generatedDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("deploy: read generated tree: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tool := entry.Name()
		if len(opts.Targets) > 0 && !slices.Contains(opts.Targets, tool) {
			d.log.Debug("tool target not selected, skipping", "target", tool)
			continue
		}
		if err := d.deployTool(ctx, filepath.Join(generatedDir, tool), tool, projectRoot, prior, opts, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// deployTool copies one tool target's subtree.
func (d *Deployer) deployTool(ctx context.Context, toolDir, tool, projectRoot string, prior *lockfile.Record, opts Options, result *Result) error {
	return filepath.WalkDir(toolDir, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(toolDir, p)
		if err != nil {
			return err
		}
		destRel := path.Join(opts.Prefix, tool, filepath.ToSlash(rel))
		if err := validateDestPath(projectRoot, destRel); err != nil {
			return err
		}
		destAbs := filepath.Join(projectRoot, filepath.FromSlash(destRel))

		exists := false
		if _, statErr := os.Lstat(destAbs); statErr == nil {
			exists = true
		}

		if exists && !prior.Has(destRel) {
			// Foreign content: the file predates us or the user created
			// it since the last sync. Never overwrite it.
			d.log.Warn("destination exists and is not tracked, skipping",
				"path", destRel)
			result.Skipped = append(result.Skipped, destRel)
			result.Conflicts = append(result.Conflicts, Conflict{
				Path:   destRel,
				Reason: "exists but not tracked by the lock record",
			})
			return nil
		}

		if opts.DryRun {
			result.Deployed = append(result.Deployed, destRel)
			return nil
		}

		if err := copyInto(p, destAbs); err != nil {
			d.log.Warn("failed to deploy file", "path", destRel, "error", err)
			result.Failures = append(result.Failures, Failure{Path: destRel, Err: err})
			return nil
		}

		result.Deployed = append(result.Deployed, destRel)
		if exists {
			result.Overwritten = append(result.Overwritten, destRel)
		} else {
			result.Created = append(result.Created, destRel)
		}
		return nil
	})
}

// validateDestPath rejects generated paths that would escape the project
// root.
func validateDestPath(projectRoot, rel string) error {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathEscape, rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathEscape, rel)
	}
	return nil
}

// copyInto copies one file, creating parent directories. Shell scripts
// keep an executable mode.
func copyInto(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if strings.HasSuffix(dst, ".sh") {
		perm = 0o755
	}
	return os.WriteFile(dst, data, perm)
}
