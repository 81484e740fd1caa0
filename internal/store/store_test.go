package store

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func sizePtr(n int64) *int64 {
	return &n
}

func TestStoreOpenAndMigrate(t *testing.T) {
	store := newTestStore(t)

	version, err := store.getSchemaVersion()
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d, got %d", currentSchemaVersion, version)
	}

	for _, table := range []string{"entries", "schema_version"} {
		var count int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	for _, index := range []string{"idx_entries_match_status", "idx_entries_title"} {
		var count int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query index %s: %v", index, err)
		}
		if count != 1 {
			t.Errorf("expected index %s to exist (schema v2)", index)
		}
	}

	if err := store.CheckIntegrity(); err != nil {
		t.Errorf("integrity check failed on fresh database: %v", err)
	}
}

func TestUpsertScannedIdentity(t *testing.T) {
	store := newTestStore(t)

	first, err := store.UpsertScanned("/games/Cyberpunk 2077", "Cyberpunk 2077", "Cyberpunk 2077", sizePtr(70<<30))
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if first.MatchStatus != StatusPending {
		t.Errorf("expected new entry pending, got %s", first.MatchStatus)
	}

	// Rescanning the same path must update in place, not duplicate
	second, err := store.UpsertScanned("/games/Cyberpunk 2077", "Cyberpunk 2077", "Cyberpunk 2077", sizePtr(75<<30))
	if err != nil {
		t.Fatalf("failed to re-upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same id on rescan, got %d and %d", first.ID, second.ID)
	}
	if second.SizeBytes == nil || *second.SizeBytes != 75<<30 {
		t.Errorf("expected size updated to 75GiB, got %v", second.SizeBytes)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 entry after rescan, got %d", len(all))
	}
}

func TestUpsertScannedKeepsSizeWhenUnmeasured(t *testing.T) {
	store := newTestStore(t)

	first, err := store.UpsertScanned("/games/Hollow Knight", "Hollow Knight", "Hollow Knight", sizePtr(9<<30))
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if first.SizeBytes == nil || *first.SizeBytes != 9<<30 {
		t.Fatalf("expected measured size stored, got %v", first.SizeBytes)
	}

	// A rescan that skipped size calculation passes nil; the known size
	// must survive instead of being zeroed
	second, err := store.UpsertScanned("/games/Hollow Knight", "Hollow Knight", "Hollow Knight", nil)
	if err != nil {
		t.Fatalf("failed to re-upsert: %v", err)
	}
	if second.SizeBytes == nil || *second.SizeBytes != 9<<30 {
		t.Errorf("expected size preserved across unmeasured rescan, got %v", second.SizeBytes)
	}
}

func TestUpsertScannedKeepsManualTitle(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/ER", "ER", "Er", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	fixed := "ELDEN RING"
	if _, err := store.ApplyManualEdit(entry.ID, &ManualEdit{Title: &fixed}); err != nil {
		t.Fatalf("failed to apply edit: %v", err)
	}

	// The rescan derives the same bad title again; the manual one must win
	rescanned, err := store.UpsertScanned("/games/ER", "ER", "Er", nil)
	if err != nil {
		t.Fatalf("failed to rescan: %v", err)
	}
	if rescanned.Title != fixed {
		t.Errorf("expected manual title to survive rescan, got %q", rescanned.Title)
	}
	if !rescanned.ManuallyEdited {
		t.Error("expected manually_edited flag to survive rescan")
	}
}

func TestCommitMatch(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Outer.Wilds", "Outer.Wilds", "Outer Wilds", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	summary := "An exploration game."
	score := int64(94)
	committed, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:   753640,
		Confidence:  0.97,
		Title:       "Outer Wilds",
		Status:      StatusMatched,
		Summary:     &summary,
		Genres:      []string{"Adventure", "Indie"},
		ReviewScore: &score,
	})
	if err != nil {
		t.Fatalf("failed to commit match: %v", err)
	}

	if committed.CatalogID == nil || *committed.CatalogID != 753640 {
		t.Errorf("unexpected catalog id: %v", committed.CatalogID)
	}
	if committed.MatchStatus != StatusMatched {
		t.Errorf("expected matched status, got %s", committed.MatchStatus)
	}
	if committed.MatchConfidence == nil || *committed.MatchConfidence != 0.97 {
		t.Errorf("unexpected confidence: %v", committed.MatchConfidence)
	}
	if len(committed.Genres) != 2 || committed.Genres[0] != "Adventure" {
		t.Errorf("unexpected genres: %v", committed.Genres)
	}
	if committed.MatchLocked {
		t.Error("auto-match must not lock the entry")
	}
	if committed.UpdatedAt.Before(committed.CreatedAt) {
		t.Error("updated_at went backwards")
	}
}

func TestCommitMatchLocksOnManual(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/W3", "W3", "W3", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	committed, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  292030,
		Confidence: 1.0,
		Title:      "The Witcher 3: Wild Hunt",
		Status:     StatusManual,
		Locked:     true,
	})
	if err != nil {
		t.Fatalf("failed to commit manual match: %v", err)
	}
	if !committed.MatchLocked {
		t.Error("expected manual match to lock the entry")
	}

	// A later unlocked commit must not clear the lock
	relocked, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  292030,
		Confidence: 0.9,
		Title:      "The Witcher 3: Wild Hunt",
		Status:     StatusMatched,
	})
	if err != nil {
		t.Fatalf("failed to recommit: %v", err)
	}
	if !relocked.MatchLocked {
		t.Error("lock must be sticky across later commits")
	}
}

func TestCommitMatchKeepsManualTitle(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/HK", "HK", "Hk", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	fixed := "Hollow Knight (my copy)"
	if _, err := store.ApplyManualEdit(entry.ID, &ManualEdit{Title: &fixed}); err != nil {
		t.Fatalf("failed to apply edit: %v", err)
	}

	committed, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  367520,
		Confidence: 0.95,
		Title:      "Hollow Knight",
		Status:     StatusMatched,
	})
	if err != nil {
		t.Fatalf("failed to commit match: %v", err)
	}
	if committed.Title != fixed {
		t.Errorf("expected manual title to survive commit, got %q", committed.Title)
	}
	if committed.CatalogID == nil || *committed.CatalogID != 367520 {
		t.Errorf("expected catalog fields to still apply, got %v", committed.CatalogID)
	}
}

func TestCommitMatchPreservesEnrichment(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Stardew", "Stardew", "Stardew Valley", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	summary := "Farming life sim."
	score := int64(98)
	count := int64(500000)
	if _, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:   413150,
		Confidence:  0.92,
		Title:       "Stardew Valley",
		Status:      StatusMatched,
		Summary:     &summary,
		Genres:      []string{"Simulation", "RPG"},
		ReviewScore: &score,
		ReviewCount: &count,
	}); err != nil {
		t.Fatalf("failed to commit match: %v", err)
	}

	// A later commit with no enrichment, like a re-confirm where the
	// review fetch came back empty, must not erase what is stored
	recommitted, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  413150,
		Confidence: 1.0,
		Title:      "Stardew Valley",
		Status:     StatusManual,
		Locked:     true,
	})
	if err != nil {
		t.Fatalf("failed to recommit: %v", err)
	}
	if recommitted.Summary == nil || *recommitted.Summary != summary {
		t.Errorf("expected summary preserved, got %v", recommitted.Summary)
	}
	if recommitted.ReviewScore == nil || *recommitted.ReviewScore != score {
		t.Errorf("expected review score preserved, got %v", recommitted.ReviewScore)
	}
	if recommitted.ReviewCount == nil || *recommitted.ReviewCount != count {
		t.Errorf("expected review count preserved, got %v", recommitted.ReviewCount)
	}
	if len(recommitted.Genres) != 2 {
		t.Errorf("expected genres preserved, got %v", recommitted.Genres)
	}
	if recommitted.MatchStatus != StatusManual {
		t.Errorf("expected the new status to land, got %s", recommitted.MatchStatus)
	}
}

func TestCommitMatchAtomicOnFailure(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Portal 2", "Portal 2", "Portal 2", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	summary := "Co-op puzzle sequel."
	if _, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  620,
		Confidence: 0.95,
		Title:      "Portal 2",
		Status:     StatusMatched,
		Summary:    &summary,
		Genres:     []string{"Puzzle"},
	}); err != nil {
		t.Fatalf("failed to commit match: %v", err)
	}

	// Make the next update blow up mid-transaction
	if _, err := store.db.Exec(`
		CREATE TRIGGER reject_commit BEFORE UPDATE ON entries
		WHEN NEW.catalog_id = 9999
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`); err != nil {
		t.Fatalf("failed to create trigger: %v", err)
	}

	if _, err := store.CommitMatch(entry.ID, &MatchData{
		CatalogID:  9999,
		Confidence: 1.0,
		Title:      "Wrong Game",
		Status:     StatusManual,
		Locked:     true,
	}); err == nil {
		t.Fatal("expected commit to fail")
	}

	// The failed transaction must leave the prior row fully intact
	got, err := store.ByID(entry.ID)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}
	if got.CatalogID == nil || *got.CatalogID != 620 {
		t.Errorf("expected catalog id unchanged, got %v", got.CatalogID)
	}
	if got.Title != "Portal 2" {
		t.Errorf("expected title unchanged, got %q", got.Title)
	}
	if got.MatchStatus != StatusMatched {
		t.Errorf("expected status unchanged, got %s", got.MatchStatus)
	}
	if got.Summary == nil || *got.Summary != summary {
		t.Errorf("expected summary unchanged, got %v", got.Summary)
	}
	if got.MatchLocked {
		t.Error("expected lock not applied by the failed commit")
	}
}

func TestCommitMatchNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.CommitMatch(9999, &MatchData{CatalogID: 1, Status: StatusMatched}); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkFailed(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Unknown", "Unknown", "Unknown", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	if err := store.MarkFailed(entry.ID); err != nil {
		t.Fatalf("failed to mark failed: %v", err)
	}

	got, err := store.ByID(entry.ID)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}
	if got.MatchStatus != StatusFailed {
		t.Errorf("expected failed status, got %s", got.MatchStatus)
	}

	if err := store.MarkFailed(9999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyManualEditPartial(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Hades", "Hades", "Hades", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	summary := "Roguelike dungeon crawler."
	edited, err := store.ApplyManualEdit(entry.ID, &ManualEdit{Summary: &summary})
	if err != nil {
		t.Fatalf("failed to apply edit: %v", err)
	}
	if edited.Summary == nil || *edited.Summary != summary {
		t.Errorf("unexpected summary: %v", edited.Summary)
	}
	if edited.Title != "Hades" {
		t.Errorf("title must be untouched by a summary-only edit, got %q", edited.Title)
	}
	// Any edit marks the entry as manually edited
	if !edited.ManuallyEdited {
		t.Error("edit must set manually_edited")
	}

	newTitle := "Hades (Steam)"
	edited, err = store.ApplyManualEdit(entry.ID, &ManualEdit{Title: &newTitle})
	if err != nil {
		t.Fatalf("failed to apply title edit: %v", err)
	}
	if edited.Title != newTitle {
		t.Errorf("unexpected title: %q", edited.Title)
	}
	if edited.Summary == nil || *edited.Summary != summary {
		t.Error("title edit must not clear earlier summary")
	}
}

func TestApplyImport(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.UpsertScanned("/games/Celeste", "Celeste", "Celeste", nil)
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	catalogID := int64(504230)
	imported, err := store.ApplyImport(entry.ID, &ImportData{
		Title:          "Celeste",
		CatalogID:      &catalogID,
		ManuallyEdited: true,
		Genres:         []string{"Platformer"},
	})
	if err != nil {
		t.Fatalf("failed to apply import: %v", err)
	}

	if imported.MatchStatus != StatusMatched {
		t.Errorf("expected imported catalog id to mark entry matched, got %s", imported.MatchStatus)
	}
	if imported.MatchConfidence == nil || *imported.MatchConfidence != 1.0 {
		t.Errorf("expected confidence 1.0 on import, got %v", imported.MatchConfidence)
	}
	if !imported.ManuallyEdited {
		t.Error("expected manually_edited carried over from sidecar")
	}
}

func TestNeedingEnrichment(t *testing.T) {
	store := newTestStore(t)

	pending, _ := store.UpsertScanned("/games/B Pending", "B Pending", "B Pending", nil)
	failed, _ := store.UpsertScanned("/games/A Failed", "A Failed", "A Failed", nil)
	matched, _ := store.UpsertScanned("/games/Matched", "Matched", "Matched", nil)
	locked, _ := store.UpsertScanned("/games/Locked", "Locked", "Locked", nil)

	if err := store.MarkFailed(failed.ID); err != nil {
		t.Fatalf("failed to mark failed: %v", err)
	}
	if _, err := store.CommitMatch(matched.ID, &MatchData{
		CatalogID: 1, Confidence: 0.9, Title: "Matched", Status: StatusMatched,
	}); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	if _, err := store.CommitMatch(locked.ID, &MatchData{
		CatalogID: 2, Confidence: 1.0, Title: "Locked", Status: StatusManual, Locked: true,
	}); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	got, err := store.NeedingEnrichment(false, 0)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Fatalf("expected only the pending entry, got %d entries", len(got))
	}

	got, err = store.NeedingEnrichment(true, 0)
	if err != nil {
		t.Fatalf("failed to query with failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected pending+failed, got %d entries", len(got))
	}
	// Ordered by title, so the failed "A" entry comes first
	if got[0].ID != failed.ID || got[1].ID != pending.ID {
		t.Errorf("expected title order [A Failed, B Pending], got [%s, %s]", got[0].Title, got[1].Title)
	}

	got, err = store.NeedingEnrichment(true, 1)
	if err != nil {
		t.Fatalf("failed to query with limit: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected limit 1 respected, got %d entries", len(got))
	}
}

func TestSearchEntries(t *testing.T) {
	store := newTestStore(t)

	store.UpsertScanned("/games/Elden.Ring", "Elden.Ring", "Elden Ring", nil)
	store.UpsertScanned("/games/Hades", "Hades", "Hades", nil)

	got, err := store.Search("elden")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Elden Ring" {
		t.Errorf("unexpected search result: %+v", got)
	}

	got, err = store.Search("nothing matches this")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)

	a, _ := store.UpsertScanned("/games/A", "A", "A", sizePtr(100))
	store.UpsertScanned("/games/B", "B", "B", sizePtr(200))
	c, _ := store.UpsertScanned("/games/C", "C", "C", sizePtr(300))

	store.MarkFailed(a.ID)
	store.CommitMatch(c.ID, &MatchData{CatalogID: 1, Confidence: 0.9, Title: "C", Status: StatusMatched})

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Matched != 1 || stats.Failed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.TotalSizeBytes != 600 {
		t.Errorf("expected total size 600, got %d", stats.TotalSizeBytes)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	entry, _ := store.UpsertScanned("/games/Gone", "Gone", "Gone", nil)

	if err := store.Delete(entry.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := store.ByID(entry.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(entry.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestUpdateLocalImages(t *testing.T) {
	store := newTestStore(t)

	entry, _ := store.UpsertScanned("/games/Art", "Art", "Art", nil)

	cover := "/games/Art/.gameshelf/cover.jpg"
	if err := store.UpdateLocalImages(entry.ID, &cover, nil); err != nil {
		t.Fatalf("failed to update images: %v", err)
	}

	got, err := store.ByID(entry.ID)
	if err != nil {
		t.Fatalf("failed to read entry: %v", err)
	}
	if got.LocalCoverPath == nil || *got.LocalCoverPath != cover {
		t.Errorf("unexpected cover path: %v", got.LocalCoverPath)
	}
	if got.LocalBackgroundPath != nil {
		t.Errorf("background path must stay nil, got %v", got.LocalBackgroundPath)
	}
}
