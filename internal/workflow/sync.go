// Package workflow orchestrates a run: resolve sources, expand the
// profile selection, compose, invoke the external generator, deploy, and
// finally rewrite the lock record. The steps are strictly ordered and
// fully synchronous; a failure before deployment leaves the previous lock
// record intact, so an aborted run self-heals on the next one.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/agentpack/agentpack/internal/compose"
	"github.com/agentpack/agentpack/internal/config"
	"github.com/agentpack/agentpack/internal/defs"
	"github.com/agentpack/agentpack/internal/deploy"
	"github.com/agentpack/agentpack/internal/generate"
	"github.com/agentpack/agentpack/internal/lockfile"
	"github.com/agentpack/agentpack/internal/profile"
	"github.com/agentpack/agentpack/internal/source"
)

// Pipeline wires the collaborators of a run. The CLI layer is the
// composition root that fills it in.
type Pipeline struct {
	Resolver source.Resolver
	Runner   generate.Runner
	Log      *slog.Logger
}

// NewPipeline creates a Pipeline. A nil logger falls back to
// slog.Default.
func NewPipeline(resolver source.Resolver, runner generate.Runner, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Resolver: resolver, Runner: runner, Log: log}
}

// SyncOptions parameterize one sync run. Global and Project are loaded by
// the caller and passed in explicitly.
type SyncOptions struct {
	ProjectRoot string
	Global      *config.Global
	Project     *config.Project
	DryRun      bool

	// Targets overrides the project's tool target list when non-empty.
	Targets []string
	// Prefix overrides the project's output prefix when non-empty.
	Prefix string
}

func (o *SyncOptions) targets() []string {
	if len(o.Targets) > 0 {
		return o.Targets
	}
	return o.Project.Targets
}

func (o *SyncOptions) prefix() string {
	if o.Prefix != "" {
		return o.Prefix
	}
	return o.Project.OutputPrefix
}

// SyncResult is the outcome of one sync run.
type SyncResult struct {
	// Expanded is the leaf specifier set the run composed for.
	Expanded []profile.Specifier
	// Deploy reports deployed, skipped, and conflicting files.
	Deploy *deploy.Result
	// Stale reports removal of previously-owned files the run no longer
	// produces.
	Stale lockfile.RemoveResult
}

// Sync runs the full pipeline against one project.
func (p *Pipeline) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	layers, registry, err := p.ResolveSources(ctx, opts.Global, opts.Project)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, compose.ErrNoSources
	}

	expanded := registry.Expand(opts.Project.Profiles)
	p.Log.Info("profile selection expanded",
		"requested", opts.Project.Profiles, "expanded", specifierStrings(expanded))

	scratch, cleanup, err := newScratchDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outDir, err := p.composeAndGenerate(ctx, layers, expanded, scratch, opts)
	if err != nil {
		return nil, err
	}

	ledger := lockfile.NewLedger(opts.ProjectRoot, p.Log)
	prior := ledger.Read()

	deployResult, err := deploy.New(p.Log).Deploy(ctx, outDir, opts.ProjectRoot, prior, deploy.Options{
		DryRun:  opts.DryRun,
		Targets: opts.targets(),
		Prefix:  opts.prefix(),
	})
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Expanded: expanded, Deploy: deployResult}
	if opts.DryRun {
		return result, nil
	}

	// Drop files we owned before but no longer produce, then persist the
	// new ownership set. The record is rewritten only after deployment
	// completed, so a crash anywhere above keeps the old record valid.
	// A path whose copy failed is not stale: the run still produces it,
	// and whatever is on disk is the previously-deployed content we own.
	owned := make(map[string]bool, len(deployResult.Deployed))
	for _, rel := range deployResult.Deployed {
		owned[rel] = true
	}
	failed := make(map[string]bool, len(deployResult.Failures))
	for _, failure := range deployResult.Failures {
		failed[failure.Path] = true
	}
	var stale []string
	for _, rel := range prior.Files {
		if !owned[rel] && !failed[rel] {
			stale = append(stale, rel)
		}
	}
	result.Stale = ledger.Remove(stale, false)

	// Previously-tracked paths with a failed overwrite stay in the record;
	// a failed first-time copy left nothing on disk to track.
	files := deployResult.Deployed
	for _, rel := range prior.Files {
		if failed[rel] {
			files = append(files, rel)
		}
	}
	if err := ledger.Write(files); err != nil {
		return nil, err
	}
	return result, nil
}

// Preview composes and generates into a scratch area without touching the
// project. The caller receives the generated output directory and must
// invoke cleanup when done. Used by status drift reporting.
func (p *Pipeline) Preview(ctx context.Context, opts SyncOptions) (string, func(), error) {
	layers, registry, err := p.ResolveSources(ctx, opts.Global, opts.Project)
	if err != nil {
		return "", nil, err
	}
	if len(layers) == 0 {
		return "", nil, compose.ErrNoSources
	}

	scratch, cleanup, err := newScratchDir()
	if err != nil {
		return "", nil, err
	}

	expanded := registry.Expand(opts.Project.Profiles)
	outDir, err := p.composeAndGenerate(ctx, layers, expanded, scratch, opts)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return outDir, cleanup, nil
}

// ResolveSources merges the global and project source lists, resolves
// each descriptor to a local tree, and aggregates the declared profiles.
func (p *Pipeline) ResolveSources(ctx context.Context, global *config.Global, project *config.Project) ([]compose.Layer, *profile.Registry, error) {
	merged := source.Merge(global.Sources, project.Sources, global.SourcePosition)

	layers := make([]compose.Layer, 0, len(merged))
	registry := profile.NewRegistry()
	for _, desc := range merged {
		path, err := p.Resolver.Resolve(ctx, desc)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve source %q: %w", desc.DisplayName(), err)
		}
		marker, err := source.LoadMarker(path)
		if err != nil {
			return nil, nil, err
		}
		registry.Merge(&marker.Profiles)

		name := desc.DisplayName()
		if marker.Name != "" {
			name = marker.Name
		}
		layers = append(layers, compose.Layer{Path: path, Name: name})
	}
	return layers, registry, nil
}

// composeAndGenerate fills the scratch area: merged content first, then
// the generator's per-tool output. Generator failure aborts before any
// project mutation.
func (p *Pipeline) composeAndGenerate(ctx context.Context, layers []compose.Layer, expanded []profile.Specifier, scratch string, opts SyncOptions) (string, error) {
	tree, err := compose.New(p.Log).Compose(ctx, layers, expanded, scratch)
	if err != nil {
		return "", err
	}

	outDir := filepath.Join(scratch, defs.OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("workflow: create output dir: %w", err)
	}

	err = p.Runner.Generate(ctx, generate.Descriptor{
		ContentDir: tree.Dir,
		OutputDir:  outDir,
		Targets:    opts.targets(),
		Categories: opts.Project.Generator.Categories,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		return "", err
	}
	return outDir, nil
}

// newScratchDir creates a unique scratch workspace outside the project.
// Cleanup is best effort: a leftover scratch tree is harmless because it
// is never a source of truth.
func newScratchDir() (string, func(), error) {
	dir := filepath.Join(os.TempDir(), "agentpack-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("workflow: create scratch dir: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func specifierStrings(specs []profile.Specifier) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}
