package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [entry-id | query]",
	Short: "Show library entries",
	Long: `Show library entries in a table, or one entry in full.

Without arguments every entry is listed. A numeric argument shows that
entry in detail; any other argument filters the list by title or folder
name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().String("status", "", "only list entries with this match status (pending/matched/failed/manual)")
	showCmd.Flags().Int("recent", 0, "only list the N most recently updated entries")
}

func runShow(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
			return showEntry(db, id)
		}
	}

	status, _ := cmd.Flags().GetString("status")
	recent, _ := cmd.Flags().GetInt("recent")

	var entries []*store.Entry
	switch {
	case len(args) == 1:
		entries, err = db.Search(args[0])
	case recent > 0:
		entries, err = db.Recent(recent)
	default:
		entries, err = db.All()
	}
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if status != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.MatchStatus == status {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	if len(entries) == 0 {
		util.InfoLog("No entries. Run 'gshelf scan' first.")
		return nil
	}

	fmt.Printf("%-5s %-40s %-8s %-10s %7s  %s\n", "ID", "TITLE", "STATUS", "CATALOG", "SIZE", "FOLDER")
	for _, entry := range entries {
		catalogID := "-"
		if entry.CatalogID != nil {
			catalogID = strconv.FormatInt(*entry.CatalogID, 10)
		}
		size := "-"
		if entry.SizeBytes != nil && *entry.SizeBytes > 0 {
			size = humanize.IBytes(uint64(*entry.SizeBytes))
		}
		title := entry.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-5d %-40s %-8s %-10s %7s  %s\n",
			entry.ID, title, entry.MatchStatus, catalogID, size, entry.FolderName)
	}
	fmt.Printf("\n%d entries\n", len(entries))

	return nil
}

func showEntry(db *store.Store, id int64) error {
	entry, err := db.ByID(id)
	if err != nil {
		return fmt.Errorf("entry %d: %w", id, err)
	}

	fmt.Printf("Title:       %s\n", entry.Title)
	fmt.Printf("Folder:      %s\n", entry.FolderPath)
	fmt.Printf("Status:      %s", entry.MatchStatus)
	if entry.MatchLocked {
		fmt.Print(" (locked)")
	}
	if entry.ManuallyEdited {
		fmt.Print(" (manually edited)")
	}
	fmt.Println()

	if entry.CatalogID != nil {
		fmt.Printf("Catalog:     %d", *entry.CatalogID)
		if entry.MatchConfidence != nil {
			fmt.Printf(" (confidence %.2f)", *entry.MatchConfidence)
		}
		fmt.Println()
	}
	if entry.ReleaseDate != nil {
		fmt.Printf("Released:    %s\n", *entry.ReleaseDate)
	}
	if len(entry.Developers) > 0 {
		fmt.Printf("Developers:  %s\n", strings.Join(entry.Developers, ", "))
	}
	if len(entry.Publishers) > 0 {
		fmt.Printf("Publishers:  %s\n", strings.Join(entry.Publishers, ", "))
	}
	if len(entry.Genres) > 0 {
		fmt.Printf("Genres:      %s\n", strings.Join(entry.Genres, ", "))
	}
	if entry.ReviewScore != nil {
		fmt.Printf("Reviews:     %d%% positive", *entry.ReviewScore)
		if entry.ReviewSummary != nil {
			fmt.Printf(" (%s)", *entry.ReviewSummary)
		}
		if entry.ReviewCount != nil {
			fmt.Printf(", %s reviews", humanize.Comma(*entry.ReviewCount))
		}
		fmt.Println()
	}
	if entry.SizeBytes != nil && *entry.SizeBytes > 0 {
		fmt.Printf("Size:        %s\n", humanize.IBytes(uint64(*entry.SizeBytes)))
	}
	if entry.LocalCoverPath != nil {
		fmt.Printf("Cover:       %s\n", *entry.LocalCoverPath)
	}
	if entry.Summary != nil {
		fmt.Printf("\n%s\n", *entry.Summary)
	}

	return nil
}
