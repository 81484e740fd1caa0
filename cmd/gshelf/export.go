package main

import (
	"fmt"

	"github.com/franz/game-shelf/internal/sidecar"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a metadata sidecar into every game folder",
	Long: `Write each entry's metadata into a sidecar file inside its game
folder. The sidecar lets the metadata travel with the folder when it is
moved to another disk or machine; 'gshelf import' reads it back.

Folders that cannot be written are counted and skipped.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newEventLogger()
	defer logger.Close()

	if _, err := sidecar.ExportAll(db, logger); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}
