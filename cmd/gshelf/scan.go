package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/game-shelf/internal/scan"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the library directory for game folders",
	Long: `Scan the library directory and record one entry per game folder.

Every top-level folder is treated as one game. Hidden folders, reserved
names and release-artifact folders (video rips, archives) are skipped.
Folders already in the database are refreshed in place: match state and
manual edits survive a rescan.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("prune", false, "remove entries whose folders no longer exist")
	scanCmd.Flags().Bool("skip-sizes", false, "skip per-folder size calculation (faster on network storage)")
}

func runScan(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := context.Background()

	library, err := libraryPath()
	if err != nil {
		return err
	}

	prune, _ := cmd.Flags().GetBool("prune")
	skipSizes, _ := cmd.Flags().GetBool("skip-sizes")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newEventLogger()
	defer logger.Close()

	scanner := scan.New(&scan.Config{
		Store:     db,
		Logger:    logger,
		SkipSizes: skipSizes,
	})

	startTime := time.Now()

	result, err := scanner.Scan(ctx, library)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if prune {
		removed, err := scanner.PruneMissing(ctx)
		if err != nil {
			return fmt.Errorf("prune failed: %w", err)
		}
		if removed > 0 {
			util.InfoLog("Pruned %d entries for removed folders", removed)
		}
	}

	util.InfoLog("Scan finished in %v", time.Since(startTime).Round(time.Millisecond))
	util.InfoLog("  New folders: %d", result.FoldersDiscovered)
	util.InfoLog("  Updated: %d", result.FoldersUpdated)
	util.InfoLog("  Skipped: %d", result.FoldersSkipped)
	if len(result.Errors) > 0 {
		util.WarnLog("  Errors: %d", len(result.Errors))
	}

	return nil
}
