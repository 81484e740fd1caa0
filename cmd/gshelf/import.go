package main

import (
	"fmt"

	"github.com/franz/game-shelf/internal/sidecar"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Read metadata sidecars back into the database",
	Long: `Read the sidecar file in every known game folder and apply it to the
database. Use this after moving a library to a new machine: scan first,
then import to restore matches and manual titles without re-querying the
catalog.

Entries with manual edits are only overwritten by sidecars that carry
manual edits themselves.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newEventLogger()
	defer logger.Close()

	if _, err := sidecar.ImportAll(db, logger); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}
