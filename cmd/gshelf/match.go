package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/franz/game-shelf/internal/catalog"
	"github.com/franz/game-shelf/internal/images"
	"github.com/franz/game-shelf/internal/resolve"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var matchCmd = &cobra.Command{
	Use:   "match <entry-id> <catalog-id-or-url>",
	Short: "Manually match an entry to a catalog id",
	Long: `Manually match an entry to a specific catalog entry, for games the
automatic search could not resolve.

The catalog reference may be a bare app id or a store page URL. The
catalog entry is shown for confirmation before anything is written;
confirming commits the match with full confidence and locks the entry
against future automatic matching.`,
	Args: cobra.ExactArgs(2),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}

func runMatch(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := context.Background()

	entryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id: %q", args[0])
	}
	ref := args[1]

	// Fail on a malformed reference before touching the database or network
	if _, err := resolve.ParseCatalogRef(ref); err != nil {
		return err
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := db.ByID(entryID)
	if err != nil {
		return fmt.Errorf("entry %d: %w", entryID, err)
	}

	logger := newEventLogger()
	defer logger.Close()

	client := catalog.NewClient(&catalog.Config{
		StoreBaseURL:  viper.GetString("catalog.store_url"),
		SearchBaseURL: viper.GetString("catalog.search_url"),
	})

	resolver := resolve.New(&resolve.Config{
		Store:   db,
		Catalog: client,
		Logger:  logger,
		Images:  images.New(&images.Config{Store: db, Logger: logger}),
	})

	details, err := resolver.PreviewManual(ctx, ref)
	if err != nil {
		return err
	}

	fmt.Printf("Entry:   %s (%s)\n", entry.Title, entry.FolderName)
	fmt.Printf("Catalog: %s (%d)\n", details.Name, details.AppID)
	if details.ReleaseDate != nil {
		fmt.Printf("Release: %s\n", *details.ReleaseDate)
	}
	if len(details.Developers) > 0 {
		fmt.Printf("By:      %s\n", strings.Join(details.Developers, ", "))
	}
	if details.Summary != nil {
		fmt.Printf("\n%s\n\n", *details.Summary)
	}

	if !skipConfirm {
		fmt.Print("Apply this match? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			util.InfoLog("Aborted, nothing written")
			return nil
		}
	}

	if _, err := resolver.ConfirmManual(ctx, entryID, ref); err != nil {
		return fmt.Errorf("failed to apply match: %w", err)
	}

	return nil
}
