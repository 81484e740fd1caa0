package main

import (
	"fmt"
	"strconv"

	"github.com/franz/game-shelf/internal/sidecar"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <entry-id>",
	Short: "Edit an entry's metadata by hand",
	Long: `Edit an entry's metadata fields directly. Only the fields given as
flags change; everything else stays as it is.

Any edit marks the entry as manually edited, which protects the title
from being overwritten by rescans and future matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("title", "", "set the display title")
	editCmd.Flags().String("summary", "", "set the summary text")
	editCmd.Flags().String("release-date", "", "set the release date")
	editCmd.Flags().StringSlice("genres", nil, "set the genre list")
	editCmd.Flags().StringSlice("developers", nil, "set the developer list")
	editCmd.Flags().StringSlice("publishers", nil, "set the publisher list")
}

func runEdit(cmd *cobra.Command, args []string) error {
	setupLogging()

	entryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id: %q", args[0])
	}

	edit := &store.ManualEdit{}
	changed := false

	if cmd.Flags().Changed("title") {
		value, _ := cmd.Flags().GetString("title")
		if value == "" {
			return fmt.Errorf("title cannot be empty")
		}
		edit.Title = &value
		changed = true
	}
	if cmd.Flags().Changed("summary") {
		value, _ := cmd.Flags().GetString("summary")
		edit.Summary = &value
		changed = true
	}
	if cmd.Flags().Changed("release-date") {
		value, _ := cmd.Flags().GetString("release-date")
		edit.ReleaseDate = &value
		changed = true
	}
	if cmd.Flags().Changed("genres") {
		edit.Genres, _ = cmd.Flags().GetStringSlice("genres")
		changed = true
	}
	if cmd.Flags().Changed("developers") {
		edit.Developers, _ = cmd.Flags().GetStringSlice("developers")
		changed = true
	}
	if cmd.Flags().Changed("publishers") {
		edit.Publishers, _ = cmd.Flags().GetStringSlice("publishers")
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to change, pass at least one field flag")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newEventLogger()
	defer logger.Close()

	entry, err := db.ApplyManualEdit(entryID, edit)
	if err != nil {
		return fmt.Errorf("failed to edit entry %d: %w", entryID, err)
	}

	action := "edit-fields"
	if edit.Title != nil {
		action = "edit-title"
	}
	logger.LogEdit(entry.FolderPath, entry.Title, action)

	// Mirror the edit into the folder's sidecar, best-effort
	sidecarErr := sidecar.Write(entry.FolderPath, sidecar.FromEntry(entry))
	if sidecarErr != nil {
		util.WarnLog("Failed to update sidecar for %q: %v", entry.Title, sidecarErr)
	}
	logger.LogSidecar(entry.FolderPath, sidecarErr)

	util.SuccessLog("Updated %q (#%d)", entry.Title, entry.ID)
	return nil
}
