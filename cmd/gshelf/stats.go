package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	setupLogging()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	fmt.Printf("Games:      %d\n", stats.Total)
	fmt.Printf("  matched:  %d\n", stats.Matched)
	fmt.Printf("  manual:   %d\n", stats.Manual)
	fmt.Printf("  pending:  %d\n", stats.Pending)
	fmt.Printf("  failed:   %d\n", stats.Failed)
	fmt.Printf("Total size: %s\n", humanize.IBytes(uint64(stats.TotalSizeBytes)))

	return nil
}
