// Package sidecar reads and writes the per-folder metadata file that
// mirrors an entry's database state. The sidecar lives inside the game
// folder itself, so metadata travels with the folder when it is moved
// to another disk or machine.
package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/title"
)

const (
	// SchemaVersion is the sidecar format version. Readers reject files
	// written with a newer version than they understand.
	SchemaVersion = 1

	metadataFile   = "metadata.json"
	coverFile      = "cover.jpg"
	backgroundFile = "background.jpg"
)

// ErrNotFound is returned when a folder has no sidecar file
var ErrNotFound = errors.New("sidecar file not found")

// Record is the on-disk sidecar document
type Record struct {
	SchemaVersion int    `json:"schema_version"`
	Title         string `json:"title"`

	CatalogID    *int64 `json:"catalog_id,omitempty"`
	AltCatalogID *int64 `json:"alt_catalog_id,omitempty"`

	Summary       *string  `json:"summary,omitempty"`
	ReleaseDate   *string  `json:"release_date,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Developers    []string `json:"developers,omitempty"`
	Publishers    []string `json:"publishers,omitempty"`
	ReviewScore   *int64   `json:"review_score,omitempty"`
	ReviewCount   *int64   `json:"review_count,omitempty"`
	ReviewSummary *string  `json:"review_summary,omitempty"`
	CoverURL      *string  `json:"cover_url,omitempty"`
	BackgroundURL *string  `json:"background_url,omitempty"`

	ManuallyEdited bool   `json:"manually_edited"`
	ExportedAt     string `json:"exported_at"`
}

// Dir returns the hidden metadata directory inside a game folder
func Dir(folderPath string) string {
	return filepath.Join(folderPath, title.GameShelfDir)
}

// Path returns the sidecar file path for a game folder
func Path(folderPath string) string {
	return filepath.Join(Dir(folderPath), metadataFile)
}

// CoverPath returns where the downloaded cover image lives
func CoverPath(folderPath string) string {
	return filepath.Join(Dir(folderPath), coverFile)
}

// BackgroundPath returns where the downloaded background image lives
func BackgroundPath(folderPath string) string {
	return filepath.Join(Dir(folderPath), backgroundFile)
}

// FromEntry builds a sidecar record from database state
func FromEntry(entry *store.Entry) *Record {
	return &Record{
		SchemaVersion:  SchemaVersion,
		Title:          entry.Title,
		CatalogID:      entry.CatalogID,
		AltCatalogID:   entry.AltCatalogID,
		Summary:        entry.Summary,
		ReleaseDate:    entry.ReleaseDate,
		Genres:         entry.Genres,
		Developers:     entry.Developers,
		Publishers:     entry.Publishers,
		ReviewScore:    entry.ReviewScore,
		ReviewCount:    entry.ReviewCount,
		ReviewSummary:  entry.ReviewSummary,
		CoverURL:       entry.CoverURL,
		BackgroundURL:  entry.BackgroundURL,
		ManuallyEdited: entry.ManuallyEdited,
		ExportedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}

// ToImport converts a sidecar record into the state applied on import
func (r *Record) ToImport() *store.ImportData {
	return &store.ImportData{
		Title:          r.Title,
		CatalogID:      r.CatalogID,
		AltCatalogID:   r.AltCatalogID,
		ManuallyEdited: r.ManuallyEdited,
		Summary:        r.Summary,
		ReleaseDate:    r.ReleaseDate,
		Genres:         r.Genres,
		Developers:     r.Developers,
		Publishers:     r.Publishers,
		ReviewScore:    r.ReviewScore,
		ReviewCount:    r.ReviewCount,
		ReviewSummary:  r.ReviewSummary,
		CoverURL:       r.CoverURL,
		BackgroundURL:  r.BackgroundURL,
	}
}

// Write saves the record atomically: written to a temp file in the same
// directory, then renamed into place so a crash never leaves a torn file.
func Write(folderPath string, record *Record) error {
	dir := Dir(folderPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sidecar directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sidecar: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, metadataFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close sidecar: %w", err)
	}

	if err := os.Rename(tmpName, Path(folderPath)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename sidecar into place: %w", err)
	}

	return nil
}

// ShouldImport reports whether a sidecar record may overwrite the
// database entry. A record carrying manual edits always applies; one
// without them never regresses an entry that is already linked to the
// catalog or has manual edits of its own.
func ShouldImport(entry *store.Entry, record *Record) bool {
	if record.ManuallyEdited {
		return true
	}
	return entry.CatalogID == nil && !entry.ManuallyEdited
}

// Read loads and validates a folder's sidecar file. Returns ErrNotFound
// when the folder has none.
func Read(folderPath string) (*Record, error) {
	data, err := os.ReadFile(Path(folderPath))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar: %w", err)
	}

	if record.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported sidecar schema version %d", record.SchemaVersion)
	}
	if record.Title == "" {
		return nil, fmt.Errorf("sidecar has no title")
	}

	return &record, nil
}
