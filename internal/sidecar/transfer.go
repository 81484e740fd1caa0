package sidecar

import (
	"fmt"

	"github.com/franz/game-shelf/internal/report"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
)

// ExportResult reports an export run
type ExportResult struct {
	Exported int
	Failed   int
}

// ImportResult reports an import run
type ImportResult struct {
	Applied int
	Skipped int
	Failed  int
}

// ExportAll writes a sidecar into every game folder the store knows.
// Folders that cannot be written (read-only, unplugged disk) are counted
// and logged but do not abort the run.
func ExportAll(st *store.Store, logger *report.EventLogger) (*ExportResult, error) {
	entries, err := st.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	result := &ExportResult{}
	for _, entry := range entries {
		err := Write(entry.FolderPath, FromEntry(entry))
		logger.LogSidecar(entry.FolderPath, err)
		if err != nil {
			util.WarnLog("Failed to export sidecar for %q: %v", entry.Title, err)
			result.Failed++
			continue
		}
		result.Exported++
	}

	util.SuccessLog("Export: %d sidecars written, %d failed", result.Exported, result.Failed)
	return result, nil
}

// ImportAll reads sidecars back into the store. Folders without a
// sidecar are skipped, and a sidecar without manual edits never
// overwrites an entry that has them.
func ImportAll(st *store.Store, logger *report.EventLogger) (*ImportResult, error) {
	entries, err := st.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	result := &ImportResult{}
	for _, entry := range entries {
		record, err := Read(entry.FolderPath)
		if err == ErrNotFound {
			result.Skipped++
			continue
		}
		if err != nil {
			util.WarnLog("Unreadable sidecar in %s: %v", entry.FolderPath, err)
			logger.LogImport(entry.FolderPath, entry.Title, "fail", err.Error())
			result.Failed++
			continue
		}

		if !ShouldImport(entry, record) {
			util.DebugLog("Keeping existing state for %q over sidecar", entry.Title)
			logger.LogImport(entry.FolderPath, entry.Title, "skip", "entry already linked or manually edited")
			result.Skipped++
			continue
		}

		if _, err := st.ApplyImport(entry.ID, record.ToImport()); err != nil {
			util.ErrorLog("Failed to import sidecar for %q: %v", entry.Title, err)
			logger.LogImport(entry.FolderPath, entry.Title, "fail", err.Error())
			result.Failed++
			continue
		}

		logger.LogImport(entry.FolderPath, record.Title, "apply", "")
		result.Applied++
	}

	util.SuccessLog("Import: %d applied, %d skipped, %d failed",
		result.Applied, result.Skipped, result.Failed)
	return result, nil
}
