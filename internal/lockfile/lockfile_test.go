package lockfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestLedgerRead(t *testing.T) {
	t.Run("absent_file_yields_empty", func(t *testing.T) {
		ledger := NewLedger(t.TempDir(), nil)
		record := ledger.Read()
		if !record.Empty() {
			t.Errorf("record = %+v, want empty", record)
		}
	})

	t.Run("corrupt_file_yields_empty", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, ".agentpack/lock.json", "{not json")

		record := NewLedger(root, nil).Read()
		if !record.Empty() {
			t.Errorf("record = %+v, want empty", record)
		}
	})

	t.Run("future_major_version_yields_empty", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, ".agentpack/lock.json",
			`{"version":"9.0.0","files":["a.md"]}`)

		record := NewLedger(root, nil).Read()
		if !record.Empty() {
			t.Errorf("record = %+v, want empty for future schema", record)
		}
	})

	t.Run("invalid_version_yields_empty", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, ".agentpack/lock.json",
			`{"version":"not-semver","files":["a.md"]}`)

		if record := NewLedger(root, nil).Read(); !record.Empty() {
			t.Errorf("record = %+v, want empty", record)
		}
	})

	t.Run("files_normalized_on_read", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, ".agentpack/lock.json",
			`{"version":"1.0.0","files":["b.md","a.md","b.md"]}`)

		record := NewLedger(root, nil).Read()
		if !reflect.DeepEqual(record.Files, []string{"a.md", "b.md"}) {
			t.Errorf("Files = %v", record.Files)
		}
		if !record.Has("a.md") || record.Has("c.md") {
			t.Error("Has() lookup is wrong")
		}
	})
}

func TestLedgerWrite(t *testing.T) {
	t.Run("dedupes_and_sorts", func(t *testing.T) {
		ledger := NewLedger(t.TempDir(), nil)
		if err := ledger.Write([]string{"z.md", "a.md", "z.md", "m/n.md"}); err != nil {
			t.Fatalf("Write error: %v", err)
		}

		record := ledger.Read()
		want := []string{"a.md", "m/n.md", "z.md"}
		if !reflect.DeepEqual(record.Files, want) {
			t.Errorf("Files = %v, want %v", record.Files, want)
		}
		if record.Version != FormatVersion {
			t.Errorf("Version = %q", record.Version)
		}
	})

	t.Run("created_preserved_last_synced_advances", func(t *testing.T) {
		ledger := NewLedger(t.TempDir(), nil)
		if err := ledger.Write([]string{"a.md"}); err != nil {
			t.Fatalf("first Write error: %v", err)
		}
		first := ledger.Read()

		time.Sleep(10 * time.Millisecond)
		if err := ledger.Write([]string{"a.md", "b.md"}); err != nil {
			t.Fatalf("second Write error: %v", err)
		}
		second := ledger.Read()

		if !second.Created.Equal(first.Created) {
			t.Errorf("Created changed: %v -> %v", first.Created, second.Created)
		}
		if second.LastSynced.Before(first.LastSynced) {
			t.Errorf("LastSynced went backwards: %v -> %v", first.LastSynced, second.LastSynced)
		}
	})

	t.Run("delete_removes_lock", func(t *testing.T) {
		ledger := NewLedger(t.TempDir(), nil)
		if err := ledger.Write([]string{"a.md"}); err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if err := ledger.Delete(); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if !ledger.Read().Empty() {
			t.Error("record should be empty after Delete")
		}
		// Deleting again is not an error.
		if err := ledger.Delete(); err != nil {
			t.Errorf("second Delete error: %v", err)
		}
	})
}

func TestLedgerRemove(t *testing.T) {
	t.Run("removes_files_and_orphan_dirs", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, "tools/claude/rules/a.md", "a")
		writeProjectFile(t, root, "tools/claude/rules/b.md", "b")
		writeProjectFile(t, root, "tools/user-notes/keep.md", "keep")

		ledger := NewLedger(root, nil)
		result := ledger.Remove([]string{"tools/claude/rules/a.md", "tools/claude/rules/b.md"}, false)

		if len(result.Removed) != 2 || len(result.Failed) != 0 {
			t.Fatalf("result = %+v", result)
		}
		if _, err := os.Stat(filepath.Join(root, "tools/claude")); !os.IsNotExist(err) {
			t.Error("emptied tool directory should be pruned")
		}
		if _, err := os.Stat(filepath.Join(root, "tools/user-notes/keep.md")); err != nil {
			t.Error("sibling user directory must be untouched")
		}
		if _, err := os.Stat(filepath.Join(root, "tools")); err != nil {
			t.Error("tools still holds user content and must survive")
		}
	})

	t.Run("missing_paths_skipped", func(t *testing.T) {
		ledger := NewLedger(t.TempDir(), nil)
		result := ledger.Remove([]string{"nope.md"}, false)
		if len(result.Removed) != 0 || len(result.Failed) != 0 {
			t.Errorf("result = %+v, want nothing", result)
		}
	})

	t.Run("dry_run_reports_without_deleting", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, "rules/a.md", "a")

		result := NewLedger(root, nil).Remove([]string{"rules/a.md"}, true)
		if len(result.Removed) != 1 {
			t.Fatalf("result = %+v", result)
		}
		if _, err := os.Stat(filepath.Join(root, "rules/a.md")); err != nil {
			t.Error("dry run must not delete")
		}
	})

	t.Run("failure_does_not_abort_batch", func(t *testing.T) {
		root := t.TempDir()
		writeProjectFile(t, root, "locked/inner.md", "x")
		writeProjectFile(t, root, "free.md", "y")
		// Make the parent directory read-only so the first delete fails.
		if err := os.Chmod(filepath.Join(root, "locked"), 0o555); err != nil {
			t.Fatalf("Chmod error: %v", err)
		}
		t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "locked"), 0o755) })

		result := NewLedger(root, nil).Remove([]string{"locked/inner.md", "free.md"}, false)
		if len(result.Failed) != 1 || result.Failed[0].Path != "locked/inner.md" {
			t.Errorf("Failed = %+v", result.Failed)
		}
		if len(result.Removed) != 1 || result.Removed[0] != "free.md" {
			t.Errorf("Removed = %+v, batch should continue past a failure", result.Removed)
		}
	})
}
