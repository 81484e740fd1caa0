package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/franz/game-shelf/internal/scan"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the library directory and rescan on changes",
	Long: `Watch the library directory and rescan whenever top-level folders are
added, removed or renamed. Entries for removed folders are pruned after
each rescan.

Runs until interrupted with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", scan.DefaultDebounce, "wait this long after the last change before rescanning")
	watchCmd.Flags().Bool("skip-sizes", false, "skip per-folder size calculation on rescans")
}

func runWatch(cmd *cobra.Command, args []string) error {
	setupLogging()

	library, err := libraryPath()
	if err != nil {
		return err
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")
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

	// Initial scan so the watcher starts from a current picture
	if _, err := scanner.Scan(context.Background(), library); err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := scan.NewWatcher(scanner, debounce)
	if err := watcher.Watch(ctx, library); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	util.InfoLog("Watch stopped")
	return nil
}
