package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/franz/game-shelf/internal/catalog"
	"github.com/franz/game-shelf/internal/images"
	"github.com/franz/game-shelf/internal/resolve"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Match pending entries against the catalog and fetch metadata",
	Long: `Match pending entries against the storefront catalog and fetch their
metadata: description, genres, developers, release date, review scores
and artwork.

Entries are processed in batches to keep request bursts short. By
default batches repeat until nothing is left; --once runs a single
batch. Entries the search cannot resolve are marked failed and wait for
'gshelf match'.`,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().Int("batch", resolve.DefaultBatchSize, "how many entries to process per batch")
	enrichCmd.Flags().Bool("once", false, "run a single batch instead of draining the queue")
	enrichCmd.Flags().Bool("retry-failed", false, "retry entries that previously failed to match")
	enrichCmd.Flags().Bool("no-images", false, "skip downloading cover and background artwork")
	enrichCmd.Flags().Bool("json", false, "print the result as JSON")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	setupLogging()
	ctx := context.Background()

	batchSize, _ := cmd.Flags().GetInt("batch")
	once, _ := cmd.Flags().GetBool("once")
	retryFailed, _ := cmd.Flags().GetBool("retry-failed")
	noImages, _ := cmd.Flags().GetBool("no-images")
	asJSON, _ := cmd.Flags().GetBool("json")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	logger := newEventLogger()
	defer logger.Close()

	client := catalog.NewClient(&catalog.Config{
		StoreBaseURL:  viper.GetString("catalog.store_url"),
		SearchBaseURL: viper.GetString("catalog.search_url"),
	})

	var imageCache *images.Cache
	if !noImages {
		imageCache = images.New(&images.Config{Store: db, Logger: logger})
	}

	resolver := resolve.New(&resolve.Config{
		Store:   db,
		Catalog: client,
		Logger:  logger,
		Images:  imageCache,
	})

	// Each batch reports {enriched, failed, remaining, total}; keep
	// going until remaining hits zero unless a single run was asked for.
	// Failed entries are only re-queued on the first pass, so an entry
	// that keeps failing cannot loop the drain forever.
	total := &resolve.BatchResult{}
	includeFailed := retryFailed
	for {
		result, err := resolver.EnrichBatch(ctx, batchSize, includeFailed)
		if err != nil {
			return fmt.Errorf("enrichment failed: %w", err)
		}
		includeFailed = false

		if total.Total == 0 {
			total.Total = result.Total
		}
		total.Enriched += result.Enriched
		total.Failed += result.Failed
		total.Remaining = result.Remaining

		if once || result.Remaining == 0 {
			break
		}
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(total)
	}

	util.InfoLog("Enrichment finished")
	util.InfoLog("  Enriched: %d", total.Enriched)
	util.InfoLog("  Failed: %d", total.Failed)
	util.InfoLog("  Remaining: %d", total.Remaining)
	util.InfoLog("  Total: %d", total.Total)

	return nil
}
