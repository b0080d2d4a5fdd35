package lockfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RemoveFailure pairs a path with the error that kept it from being
// deleted.
type RemoveFailure struct {
	Path string
	Err  error
}

// RemoveResult reports the outcome of a removal batch.
type RemoveResult struct {
	Removed []string
	Failed  []RemoveFailure
}

// Remove deletes the given project-relative paths, then cleans up any
// directories that became empty as a result. Per-file failures are
// collected and do not abort the batch. With dryRun set, existing paths
// are only reported and nothing is touched.
//
// Orphan cleanup is deliberately narrow: only ancestor directories of
// actually-removed paths are candidates, deepest first, and only if they
// are empty. Sibling directories the user created are never considered.
func (l *Ledger) Remove(paths []string, dryRun bool) RemoveResult {
	var result RemoveResult

	for _, rel := range paths {
		abs := filepath.Join(l.root, filepath.FromSlash(rel))
		if _, err := os.Lstat(abs); err != nil {
			continue
		}
		if dryRun {
			result.Removed = append(result.Removed, rel)
			continue
		}
		if err := os.Remove(abs); err != nil {
			l.log.Warn("failed to remove file", "path", rel, "error", err)
			result.Failed = append(result.Failed, RemoveFailure{Path: rel, Err: err})
			continue
		}
		result.Removed = append(result.Removed, rel)
	}

	if !dryRun {
		l.pruneOrphanDirs(result.Removed)
	}
	return result
}

// pruneOrphanDirs removes now-empty ancestor directories of the removed
// paths, deepest first, stopping at the project root.
func (l *Ledger) pruneOrphanDirs(removed []string) {
	candidates := make(map[string]bool)
	for _, rel := range removed {
		dir := filepath.Dir(filepath.FromSlash(rel))
		for dir != "." && dir != string(filepath.Separator) {
			candidates[dir] = true
			dir = filepath.Dir(dir)
		}
	}
	if len(candidates) == 0 {
		return
	}

	dirs := make([]string, 0, len(candidates))
	for dir := range candidates {
		dirs = append(dirs, dir)
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, dir := range dirs {
		abs := filepath.Join(l.root, dir)
		entries, err := os.ReadDir(abs)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(abs); err != nil {
			l.log.Debug("orphan directory not removed", "path", dir, "error", err)
		}
	}
}
