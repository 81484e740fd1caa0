package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Match statuses. An entry starts pending, moves to matched or failed
// through enrichment, and to manual through an explicit user decision.
const (
	StatusPending = "pending"
	StatusMatched = "matched"
	StatusFailed  = "failed"
	StatusManual  = "manual"
)

// ErrNotFound is returned when an entry does not exist
var ErrNotFound = errors.New("entry not found")

// Entry is one library folder and everything known about it. Nullable
// columns map to pointer fields; list columns are stored as JSON text.
type Entry struct {
	ID         int64
	FolderPath string
	FolderName string
	Title      string

	CatalogID       *int64
	AltCatalogID    *int64
	MatchConfidence *float64
	MatchStatus     string

	Summary       *string
	ReleaseDate   *string
	Genres        []string
	Developers    []string
	Publishers    []string
	ReviewScore   *int64
	ReviewCount   *int64
	ReviewSummary *string

	CoverURL            *string
	BackgroundURL       *string
	LocalCoverPath      *string
	LocalBackgroundPath *string

	SizeBytes *int64

	ManuallyEdited bool
	MatchLocked    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchData is the full result of resolving an entry against the catalog,
// applied atomically by CommitMatch.
type MatchData struct {
	CatalogID  int64
	Confidence float64
	Title      string
	Status     string
	Locked     bool

	Summary       *string
	ReleaseDate   *string
	Genres        []string
	Developers    []string
	Publishers    []string
	ReviewScore   *int64
	ReviewCount   *int64
	ReviewSummary *string
	CoverURL      *string
	BackgroundURL *string
}

// ManualEdit is a partial update from the edit command. Nil fields are
// left untouched.
type ManualEdit struct {
	Title       *string
	Summary     *string
	ReleaseDate *string
	Genres      []string
	Developers  []string
	Publishers  []string
}

// Stats summarizes the library by match status
type Stats struct {
	Total          int64
	Pending        int64
	Matched        int64
	Failed         int64
	Manual         int64
	TotalSizeBytes int64
}

const entryColumns = `
	id, folder_path, folder_name, title,
	catalog_id, alt_catalog_id, match_confidence, match_status,
	summary, release_date, genres, developers, publishers,
	review_score, review_count, review_summary,
	cover_url, background_url, local_cover_path, local_background_path,
	size_bytes, manually_edited, match_locked, created_at, updated_at`

// UpsertScanned records a folder discovered by the scanner. A new folder
// gets a pending entry with the derived title; a known folder keeps all
// of its match state, and keeps its title too when it was manually edited.
// A nil size means the scan did not measure the folder, and any size a
// previous scan stored is kept.
func (s *Store) UpsertScanned(folderPath, folderName, title string, sizeBytes *int64) (*Entry, error) {
	_, err := s.db.Exec(`
		INSERT INTO entries (folder_path, folder_name, title, size_bytes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(folder_path) DO UPDATE SET
			folder_name = excluded.folder_name,
			title = CASE WHEN entries.manually_edited = 1
				THEN entries.title ELSE excluded.title END,
			size_bytes = COALESCE(excluded.size_bytes, entries.size_bytes),
			updated_at = CURRENT_TIMESTAMP
	`, folderPath, folderName, title, sizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entry: %w", err)
	}

	return s.ByFolderPath(folderPath)
}

// CommitMatch applies a resolved match and its enrichment in one
// transaction and returns the entry as re-read inside that transaction.
// Either every field lands or none do. A manually edited title survives;
// Locked only ever sets match_locked, never clears it; enrichment fields
// missing from the match keep their stored values, so a re-commit after
// a partial fetch never erases what an earlier run stored.
func (s *Store) CommitMatch(id int64, data *MatchData) (*Entry, error) {
	var entry *Entry

	err := s.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE entries SET
				catalog_id = ?,
				match_confidence = ?,
				match_status = ?,
				title = CASE WHEN manually_edited = 1 THEN title ELSE ? END,
				summary = COALESCE(?, summary),
				release_date = COALESCE(?, release_date),
				genres = COALESCE(?, genres),
				developers = COALESCE(?, developers),
				publishers = COALESCE(?, publishers),
				review_score = COALESCE(?, review_score),
				review_count = COALESCE(?, review_count),
				review_summary = COALESCE(?, review_summary),
				cover_url = COALESCE(?, cover_url),
				background_url = COALESCE(?, background_url),
				match_locked = CASE WHEN ? THEN 1 ELSE match_locked END,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, data.CatalogID, data.Confidence, data.Status, data.Title,
			data.Summary, data.ReleaseDate,
			marshalList(data.Genres), marshalList(data.Developers), marshalList(data.Publishers),
			data.ReviewScore, data.ReviewCount, data.ReviewSummary,
			data.CoverURL, data.BackgroundURL,
			data.Locked, id)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		entry, err = scanEntryRow(tx.QueryRow(
			"SELECT"+entryColumns+" FROM entries WHERE id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// MarkFailed flags an entry whose enrichment found no acceptable match
func (s *Store) MarkFailed(id int64) error {
	result, err := s.db.Exec(`
		UPDATE entries SET match_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, id)
	if err != nil {
		return fmt.Errorf("failed to mark entry as failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// ApplyManualEdit applies a partial user edit in one transaction and
// returns the re-read entry. Any edit sets the manually_edited flag,
// which future scans and matches must respect.
func (s *Store) ApplyManualEdit(id int64, edit *ManualEdit) (*Entry, error) {
	var entry *Entry

	err := s.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE entries SET
				title = COALESCE(?, title),
				summary = COALESCE(?, summary),
				release_date = COALESCE(?, release_date),
				genres = COALESCE(?, genres),
				developers = COALESCE(?, developers),
				publishers = COALESCE(?, publishers),
				manually_edited = 1,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, edit.Title, edit.Summary, edit.ReleaseDate,
			marshalList(edit.Genres), marshalList(edit.Developers), marshalList(edit.Publishers),
			id)
		if err != nil {
			return fmt.Errorf("failed to apply edit: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		entry, err = scanEntryRow(tx.QueryRow(
			"SELECT"+entryColumns+" FROM entries WHERE id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ImportData is sidecar state applied back onto an entry during import
type ImportData struct {
	Title          string
	CatalogID      *int64
	AltCatalogID   *int64
	ManuallyEdited bool

	Summary       *string
	ReleaseDate   *string
	Genres        []string
	Developers    []string
	Publishers    []string
	ReviewScore   *int64
	ReviewCount   *int64
	ReviewSummary *string
	CoverURL      *string
	BackgroundURL *string
}

// ApplyImport restores an entry from exported sidecar state. An imported
// catalog id marks the entry matched; the manually_edited flag is carried
// over so later scans keep the restored title.
func (s *Store) ApplyImport(id int64, data *ImportData) (*Entry, error) {
	status := StatusPending
	var confidence *float64
	if data.CatalogID != nil {
		status = StatusMatched
		one := 1.0
		confidence = &one
	}

	var entry *Entry

	err := s.Transaction(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE entries SET
				title = ?,
				catalog_id = ?,
				alt_catalog_id = ?,
				match_confidence = COALESCE(?, match_confidence),
				match_status = ?,
				summary = COALESCE(?, summary),
				release_date = COALESCE(?, release_date),
				genres = COALESCE(?, genres),
				developers = COALESCE(?, developers),
				publishers = COALESCE(?, publishers),
				review_score = COALESCE(?, review_score),
				review_count = COALESCE(?, review_count),
				review_summary = COALESCE(?, review_summary),
				cover_url = COALESCE(?, cover_url),
				background_url = COALESCE(?, background_url),
				manually_edited = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, data.Title, data.CatalogID, data.AltCatalogID, confidence, status,
			data.Summary, data.ReleaseDate,
			marshalList(data.Genres), marshalList(data.Developers), marshalList(data.Publishers),
			data.ReviewScore, data.ReviewCount, data.ReviewSummary,
			data.CoverURL, data.BackgroundURL,
			data.ManuallyEdited, id)
		if err != nil {
			return fmt.Errorf("failed to apply import: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		entry, err = scanEntryRow(tx.QueryRow(
			"SELECT"+entryColumns+" FROM entries WHERE id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// UpdateLocalImages records where downloaded artwork landed on disk
func (s *Store) UpdateLocalImages(id int64, coverPath, backgroundPath *string) error {
	_, err := s.db.Exec(`
		UPDATE entries SET
			local_cover_path = COALESCE(?, local_cover_path),
			local_background_path = COALESCE(?, local_background_path),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, coverPath, backgroundPath, id)
	if err != nil {
		return fmt.Errorf("failed to update local image paths: %w", err)
	}
	return nil
}

// ByID returns the entry with the given id
func (s *Store) ByID(id int64) (*Entry, error) {
	return scanEntryRow(s.db.QueryRow(
		"SELECT"+entryColumns+" FROM entries WHERE id = ?", id))
}

// ByFolderPath returns the entry for an absolute folder path
func (s *Store) ByFolderPath(folderPath string) (*Entry, error) {
	return scanEntryRow(s.db.QueryRow(
		"SELECT"+entryColumns+" FROM entries WHERE folder_path = ?", folderPath))
}

// All returns every entry ordered by title
func (s *Store) All() ([]*Entry, error) {
	return s.queryEntries(
		"SELECT" + entryColumns + " FROM entries ORDER BY title COLLATE NOCASE")
}

// Search returns entries whose title or folder name contains the query,
// capped at 50 results
func (s *Store) Search(query string) ([]*Entry, error) {
	pattern := "%" + query + "%"
	return s.queryEntries(`
		SELECT`+entryColumns+` FROM entries
		WHERE title LIKE ? OR folder_name LIKE ?
		ORDER BY title COLLATE NOCASE
		LIMIT 50
	`, pattern, pattern)
}

// Recent returns the most recently updated entries
func (s *Store) Recent(limit int) ([]*Entry, error) {
	return s.queryEntries(`
		SELECT`+entryColumns+` FROM entries
		ORDER BY updated_at DESC, id DESC LIMIT ?
	`, limit)
}

// NeedingEnrichment returns unlocked entries still waiting on a match,
// oldest titles first. With includeFailed, previously failed entries are
// retried as well. A limit of 0 means no limit.
func (s *Store) NeedingEnrichment(includeFailed bool, limit int) ([]*Entry, error) {
	statuses := []string{StatusPending}
	if includeFailed {
		statuses = append(statuses, StatusFailed)
	}

	placeholders := strings.Repeat("?,", len(statuses))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(statuses)+1)
	for _, status := range statuses {
		args = append(args, status)
	}

	query := fmt.Sprintf(`
		SELECT%s FROM entries
		WHERE match_status IN (%s) AND match_locked = 0
		ORDER BY title COLLATE NOCASE
	`, entryColumns, placeholders)

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryEntries(query, args...)
}

// CountStatus returns how many entries hold the given match status
func (s *Store) CountStatus(status string) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM entries WHERE match_status = ?", status).Scan(&count)
	return count, err
}

// GetStats returns library-wide counts and total size
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(match_status = 'pending'), 0),
			COALESCE(SUM(match_status = 'matched'), 0),
			COALESCE(SUM(match_status = 'failed'), 0),
			COALESCE(SUM(match_status = 'manual'), 0),
			COALESCE(SUM(size_bytes), 0)
		FROM entries
	`).Scan(&stats.Total, &stats.Pending, &stats.Matched,
		&stats.Failed, &stats.Manual, &stats.TotalSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	return stats, nil
}

// Delete removes an entry, used when its folder disappears from disk
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Store) queryEntries(query string, args ...interface{}) ([]*Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntryRow(row rowScanner) (*Entry, error) {
	entry := &Entry{}
	var genres, developers, publishers *string
	var manuallyEdited, matchLocked int64

	err := row.Scan(
		&entry.ID, &entry.FolderPath, &entry.FolderName, &entry.Title,
		&entry.CatalogID, &entry.AltCatalogID, &entry.MatchConfidence, &entry.MatchStatus,
		&entry.Summary, &entry.ReleaseDate, &genres, &developers, &publishers,
		&entry.ReviewScore, &entry.ReviewCount, &entry.ReviewSummary,
		&entry.CoverURL, &entry.BackgroundURL, &entry.LocalCoverPath, &entry.LocalBackgroundPath,
		&entry.SizeBytes, &manuallyEdited, &matchLocked,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Genres = unmarshalList(genres)
	entry.Developers = unmarshalList(developers)
	entry.Publishers = unmarshalList(publishers)
	entry.ManuallyEdited = manuallyEdited == 1
	entry.MatchLocked = matchLocked == 1

	return entry, nil
}

// marshalList encodes a string list as JSON text, nil for an empty list
func marshalList(list []string) *string {
	if len(list) == 0 {
		return nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	text := string(data)
	return &text
}

func unmarshalList(text *string) []string {
	if text == nil || *text == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(*text), &list); err != nil {
		return nil
	}
	return list
}
