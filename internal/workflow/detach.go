package workflow

import (
	"log/slog"

	"github.com/agentpack/agentpack/internal/lockfile"
)

// DetachResult reports the removal of every tracked file and whether the
// lock record itself was deleted.
type DetachResult struct {
	Removed     lockfile.RemoveResult
	LockDeleted bool
}

// Detach removes every file the tool owns in the project and deletes the
// lock record entirely. With dryRun set it only reports what would go.
// Per-file failures are collected and do not stop the batch; the lock is
// deleted regardless so a re-sync starts from a clean slate.
func Detach(projectRoot string, dryRun bool, log *slog.Logger) (*DetachResult, error) {
	ledger := lockfile.NewLedger(projectRoot, log)
	record := ledger.Read()

	result := &DetachResult{
		Removed: ledger.Remove(record.Files, dryRun),
	}
	if dryRun {
		return result, nil
	}

	if err := ledger.Delete(); err != nil {
		return result, err
	}
	result.LockDeleted = true
	return result, nil
}
