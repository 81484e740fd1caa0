// Package scan discovers game folders in a library directory and records
// them in the store. Discovery is one level deep: every top-level folder
// is one game, everything inside it belongs to that game.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/game-shelf/internal/report"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/title"
	"github.com/franz/game-shelf/internal/util"
	"github.com/schollz/progressbar/v3"
)

// Scanner discovers game folders in a library directory
type Scanner struct {
	store  *store.Store
	logger *report.EventLogger
	sizes  bool
}

// Config holds scanner configuration
type Config struct {
	Store  *store.Store
	Logger *report.EventLogger

	// SkipSizes disables per-folder size calculation, which walks every
	// file in the folder and can be slow on network storage
	SkipSizes bool
}

// New creates a new Scanner
func New(cfg *Config) *Scanner {
	return &Scanner{
		store:  cfg.Store,
		logger: cfg.Logger,
		sizes:  !cfg.SkipSizes,
	}
}

// Result represents a scan result
type Result struct {
	FoldersDiscovered int
	FoldersUpdated    int
	FoldersSkipped    int
	Errors            []error
}

// Scan lists the library directory and upserts one entry per game folder.
// Files, hidden folders and release-artifact folders at the top level are
// skipped. Known folders are refreshed in place; match state and manual
// edits survive a rescan.
func (s *Scanner) Scan(ctx context.Context, libraryPath string) (*Result, error) {
	util.InfoLog("Starting scan of: %s", libraryPath)

	dirEntries, err := os.ReadDir(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	result := &Result{
		Errors: make([]error, 0),
	}

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(dirEntries),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("folders"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	for _, dirEntry := range dirEntries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if bar != nil {
			bar.Add(1)
		}

		name := dirEntry.Name()
		folderPath := filepath.Join(libraryPath, name)

		if !dirEntry.IsDir() {
			continue
		}

		if title.IsExcluded(name) {
			util.DebugLog("Skipping excluded folder: %s", name)
			s.logger.LogSkip(folderPath, "excluded folder name")
			result.FoldersSkipped++
			continue
		}

		// nil size means "not measured"; the store keeps any size a
		// previous full scan recorded
		var sizeBytes *int64
		if s.sizes {
			size := folderSize(folderPath)
			sizeBytes = &size
		}

		_, err := s.store.ByFolderPath(folderPath)
		isNew := err == store.ErrNotFound
		if err != nil && !isNew {
			result.Errors = append(result.Errors, fmt.Errorf("lookup failed for %s: %w", folderPath, err))
			continue
		}

		derived := title.Normalize(name)
		entry, err := s.store.UpsertScanned(folderPath, name, derived, sizeBytes)
		if err != nil {
			util.ErrorLog("Failed to record %s: %v", folderPath, err)
			result.Errors = append(result.Errors, err)
			continue
		}

		var loggedSize int64
		if entry.SizeBytes != nil {
			loggedSize = *entry.SizeBytes
		}
		s.logger.LogScan(folderPath, entry.Title, loggedSize)

		if isNew {
			util.DebugLog("Discovered: %s -> %q", name, entry.Title)
			result.FoldersDiscovered++
		} else {
			result.FoldersUpdated++
		}
	}

	if bar != nil {
		bar.Finish()
	}

	util.SuccessLog("Scan complete: %d new, %d updated, %d skipped, %d errors",
		result.FoldersDiscovered, result.FoldersUpdated, result.FoldersSkipped, len(result.Errors))

	return result, nil
}

// PruneMissing removes entries whose folders no longer exist on disk.
// Returns the number of entries removed.
func (s *Scanner) PruneMissing(ctx context.Context) (int, error) {
	entries, err := s.store.All()
	if err != nil {
		return 0, fmt.Errorf("failed to list entries: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return removed, ctx.Err()
		default:
		}

		if _, err := os.Stat(entry.FolderPath); os.IsNotExist(err) {
			util.InfoLog("Removing entry for missing folder: %s", entry.FolderPath)
			if err := s.store.Delete(entry.ID); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", entry.FolderPath, err)
			}
			removed++
		}
	}

	return removed, nil
}

// folderSize sums the size of every regular file under the folder.
// Unreadable subtrees contribute what could be read; size is an estimate,
// never an error.
func folderSize(folderPath string) int64 {
	var total int64

	filepath.WalkDir(folderPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})

	return total
}
