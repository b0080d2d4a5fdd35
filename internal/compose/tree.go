package compose

import (
	"os"
	"path/filepath"
	"sort"
)

// Tree is the composed scratch tree handed to the external generator.
// It is ephemeral: recreated on every run and discarded after deployment.
type Tree struct {
	// Dir is the root of the merged content tree.
	Dir string
}

// Files returns the sorted slash-relative paths of every file in the
// tree. Useful for logging and tests.
func (t *Tree) Files() ([]string, error) {
	var files []string
	err := walkFiles(t.Dir, func(_, rel string) error {
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile reads one file by its tree-relative path.
func (t *Tree) ReadFile(rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(t.Dir, filepath.FromSlash(rel)))
}
