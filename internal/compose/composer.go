// Package compose merges shared and profile-specific content from an
// ordered list of resolved sources into a single scratch tree. Later
// layers overwrite earlier files at the same relative path; directories
// accumulate across layers.
package compose

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentpack/agentpack/internal/defs"
	"github.com/agentpack/agentpack/internal/profile"
)

// ErrNoSources indicates composition was attempted with an empty source
// list; every other gap (missing directories, absent profiles) simply
// contributes nothing.
var ErrNoSources = errors.New("compose: no sources to compose")

// Layer is one resolved source, in merge order.
type Layer struct {
	// Path is the local root of the resolved source tree.
	Path string
	// Name is the source's display name, used in logs.
	Name string
}

// Composer merges layers into a composed tree.
type Composer struct {
	log *slog.Logger
}

// New creates a Composer. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{log: log}
}

// Compose walks every layer in order and writes the merged,
// visibility-filtered content tree under destDir. The target specifiers
// must already be expanded to leaves.
func (c *Composer) Compose(ctx context.Context, layers []Layer, targets []profile.Specifier, destDir string) (*Tree, error) {
	if len(layers) == 0 {
		return nil, ErrNoSources
	}

	tree := &Tree{Dir: filepath.Join(destDir, defs.ContentDir)}
	if err := os.MkdirAll(tree.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("compose: create tree: %w", err)
	}

	for _, layer := range layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.log.Debug("composing layer", "source", layer.Name, "path", layer.Path)

		// Global shared content is filtered against the full target set.
		sharedDir := filepath.Join(layer.Path, defs.SharedDir)
		if err := c.copyScope(sharedDir, tree.Dir, profile.ScopeGlobal, targets, true); err != nil {
			return nil, err
		}

		for _, target := range targets {
			if err := c.copyTarget(layer, target, tree.Dir); err != nil {
				return nil, err
			}
		}
	}
	return tree, nil
}

// copyTarget copies one target specifier's content from a layer. A
// "parent:sub" target first takes the parent's own shared area, filtered
// against that single specifier in the parent's scope, then the leaf
// directory unconditionally. A flat target takes its profile directory
// unconditionally.
func (c *Composer) copyTarget(layer Layer, target profile.Specifier, dest string) error {
	parentDir := filepath.Join(layer.Path, defs.ProfilesDir, target.Parent)

	if !target.IsQualified() {
		return c.copyScope(parentDir, dest, profile.ScopeGlobal, nil, false)
	}

	scoped := filepath.Join(parentDir, defs.SharedDir)
	if err := c.copyScope(scoped, dest, profile.Scope(target.Parent), []profile.Specifier{target}, true); err != nil {
		return err
	}
	return c.copyScope(filepath.Join(parentDir, target.Sub), dest, profile.ScopeGlobal, nil, false)
}

// copyScope copies one scope directory into the destination tree:
// per-document entity types filtered individually, skill directories gated
// atomically on their manifest, and auxiliary passthrough files verbatim.
// With filtered set, documents are matched against the target set, which
// may be empty: an empty selection then admits only unrestricted
// documents. Unconditional copies (leaf and flat profile content) pass
// filtered=false. A missing directory contributes nothing.
func (c *Composer) copyScope(scopeDir, dest string, scope profile.Scope, targets []profile.Specifier, filtered bool) error {
	if info, err := os.Stat(scopeDir); err != nil || !info.IsDir() {
		return nil
	}

	for _, entity := range defs.EntityDirs {
		entityDir := filepath.Join(scopeDir, entity)
		err := walkFiles(entityDir, func(path, rel string) error {
			if filtered && !profile.Include(path, targets, scope) {
				c.log.Debug("document filtered out", "path", path, "scope", string(scope))
				return nil
			}
			return copyFile(path, filepath.Join(dest, entity, rel))
		})
		if err != nil {
			return fmt.Errorf("compose: %s: %w", entityDir, err)
		}
	}

	if err := c.copySkills(filepath.Join(scopeDir, defs.SkillsDir), dest, scope, targets, filtered); err != nil {
		return err
	}

	for _, aux := range []string{defs.MCPJSON, defs.IgnoreFile} {
		src := filepath.Join(scopeDir, aux)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(dest, aux)); err != nil {
			return fmt.Errorf("compose: passthrough %s: %w", aux, err)
		}
	}
	return nil
}

// copySkills copies whole skill directories. Visibility is decided once
// per skill from its manifest; the rest of the directory follows the
// manifest's verdict.
func (c *Composer) copySkills(skillsDir, dest string, scope profile.Scope, targets []profile.Specifier, filtered bool) error {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(skillsDir, entry.Name())
		manifest := filepath.Join(skillDir, defs.SkillManifest)
		if filtered && !profile.Include(manifest, targets, scope) {
			c.log.Debug("skill filtered out", "skill", entry.Name(), "scope", string(scope))
			continue
		}

		err := walkFiles(skillDir, func(path, rel string) error {
			return copyFile(path, filepath.Join(dest, defs.SkillsDir, entry.Name(), rel))
		})
		if err != nil {
			return fmt.Errorf("compose: skill %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// walkFiles visits every regular file under root with its slash-relative
// path. A missing root is not an error.
func walkFiles(root string, fn func(path, rel string) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(path, filepath.ToSlash(rel))
	})
}

// copyFile copies src to dst, creating parent directories and replacing
// any existing file wholesale.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
