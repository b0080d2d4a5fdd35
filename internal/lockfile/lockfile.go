// Package lockfile implements the durable ledger of files the tool owns
// inside a project. The record is what lets a later run replace or remove
// previously-deployed files without touching user-owned content.
package lockfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/agentpack/agentpack/internal/defs"
)

// FormatVersion is the lock record schema version written by this build.
// A record whose major version is ahead of ours is treated as unreadable
// and degrades to an empty record.
const FormatVersion = "1.0.0"

// Record is the persisted lock state. Files are project-root-relative,
// forward-slash-separated, sorted, and deduplicated. Created is immutable
// across updates; LastSynced is monotonically non-decreasing.
type Record struct {
	Version    string    `json:"version"`
	Created    time.Time `json:"created"`
	LastSynced time.Time `json:"lastSynced"`
	Files      []string  `json:"files"`
}

// Has reports whether the record tracks the given relative path.
func (r *Record) Has(rel string) bool {
	_, found := slices.BinarySearch(r.Files, rel)
	return found
}

// Empty reports whether the record tracks nothing.
func (r *Record) Empty() bool {
	return len(r.Files) == 0
}

// Ledger reads and writes the lock record of one project.
type Ledger struct {
	root string
	path string
	log  *slog.Logger
}

// NewLedger creates a Ledger for the project root. A nil logger falls
// back to slog.Default.
func NewLedger(projectRoot string, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	root := filepath.Clean(projectRoot)
	return &Ledger{
		root: root,
		path: filepath.Join(root, defs.PackDir, defs.LockJSON),
		log:  log,
	}
}

// Path returns the lock file location.
func (l *Ledger) Path() string {
	return l.path
}

// Read loads the current record. An absent file, malformed JSON, or an
// incompatible schema version all degrade to an empty record — never an
// error. Deployment must keep working after a corrupt lock file.
func (l *Ledger) Read() *Record {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return l.emptyRecord()
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		l.log.Warn("lock record unreadable, treating as empty", "path", l.path, "error", err)
		return l.emptyRecord()
	}
	if !l.compatible(record.Version) {
		l.log.Warn("lock record version incompatible, treating as empty",
			"path", l.path, "version", record.Version, "supported", FormatVersion)
		return l.emptyRecord()
	}

	record.Files = normalizeFiles(record.Files)
	return &record
}

// Write persists a new file set, deduplicated and sorted, preserving the
// prior record's creation timestamp and stamping a fresh, monotonically
// non-decreasing sync time.
func (l *Ledger) Write(files []string) error {
	prior := l.Read()

	now := time.Now().UTC()
	created := prior.Created
	if created.IsZero() {
		created = now
	}
	lastSynced := now
	if prior.LastSynced.After(lastSynced) {
		lastSynced = prior.LastSynced
	}

	record := Record{
		Version:    FormatVersion,
		Created:    created,
		LastSynced: lastSynced,
		Files:      normalizeFiles(files),
	}

	data, err := json.MarshalIndent(&record, "", "  ")
	if err != nil {
		return fmt.Errorf("lockfile: encode record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("lockfile: create %s: %w", filepath.Dir(l.path), err)
	}
	if err := os.WriteFile(l.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", l.path, err)
	}
	return nil
}

// Delete removes the lock file entirely. Used by detach.
func (l *Ledger) Delete() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lockfile: delete %s: %w", l.path, err)
	}
	return nil
}

func (l *Ledger) emptyRecord() *Record {
	return &Record{Version: FormatVersion}
}

// compatible reports whether a persisted schema version can be read by
// this build: same or older major version.
func (l *Ledger) compatible(raw string) bool {
	recorded, err := semver.NewVersion(raw)
	if err != nil {
		return false
	}
	supported := semver.MustParse(FormatVersion)
	return recorded.Major() <= supported.Major()
}

// normalizeFiles returns the sorted, deduplicated, slash-separated form
// of a file list.
func normalizeFiles(files []string) []string {
	normalized := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		normalized = append(normalized, filepath.ToSlash(f))
	}
	slices.Sort(normalized)
	return slices.Compact(normalized)
}
