package main

import (
	"fmt"
	"os"

	"github.com/franz/game-shelf/internal/report"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
	"github.com/spf13/viper"
)

// setupLogging applies the verbose/quiet flags to the global logger
func setupLogging() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// openStore opens the state database from configuration
func openStore() (*store.Store, error) {
	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// libraryPath returns the configured library directory, verifying that
// it exists
func libraryPath() (string, error) {
	library := viper.GetString("library")
	if library == "" {
		return "", fmt.Errorf("library directory is required (use --library/-l or set in config)")
	}
	if _, err := os.Stat(library); os.IsNotExist(err) {
		return "", fmt.Errorf("library directory does not exist: %s", library)
	}
	return library, nil
}

// newEventLogger creates the audit JSONL logger, falling back to a
// no-op logger when the artifacts directory is not writable
func newEventLogger() *report.EventLogger {
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger(viper.GetString("artifacts"), logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return report.NullLogger()
	}

	if logger.Path() != "" {
		util.DebugLog("Event log: %s", logger.Path())
	}
	return logger
}
