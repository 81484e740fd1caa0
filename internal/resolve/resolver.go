// Package resolve orchestrates the match pipeline: it takes pending
// entries from the store, resolves their titles against the external
// catalog, and commits matches together with their enrichment.
package resolve

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/franz/game-shelf/internal/catalog"
	"github.com/franz/game-shelf/internal/images"
	"github.com/franz/game-shelf/internal/report"
	"github.com/franz/game-shelf/internal/sidecar"
	"github.com/franz/game-shelf/internal/store"
	"github.com/franz/game-shelf/internal/util"
	"github.com/schollz/progressbar/v3"
)

const (
	// AutoMatchThreshold is the confidence at which a match needs no
	// review. Lower-confidence hits are still committed; the stored
	// confidence value itself flags them for review downstream.
	AutoMatchThreshold = 0.85

	// DefaultBatchSize bounds how many entries one enrichment run
	// processes, keeping request bursts against the catalog short.
	DefaultBatchSize = 20
)

// Catalog is the slice of the catalog client the resolver needs
type Catalog interface {
	Search(ctx context.Context, title string) *catalog.Match
	FetchDetails(ctx context.Context, appID int64) *catalog.Details
	FetchReviews(ctx context.Context, appID int64) *catalog.Reviews
}

// Resolver matches entries against the catalog and enriches them
type Resolver struct {
	store   *store.Store
	catalog Catalog
	logger  *report.EventLogger
	images  *images.Cache

	rateLimit   time.Duration
	lastRequest time.Time
}

// Config holds resolver configuration. Images is optional; RateLimit 0
// selects the catalog default.
type Config struct {
	Store     *store.Store
	Catalog   Catalog
	Logger    *report.EventLogger
	Images    *images.Cache
	RateLimit time.Duration
}

// New creates a new Resolver
func New(cfg *Config) *Resolver {
	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = catalog.RateLimit
	}

	return &Resolver{
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		logger:    cfg.Logger,
		images:    cfg.Images,
		rateLimit: rateLimit,
	}
}

// BatchResult reports what one enrichment run did
type BatchResult struct {
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

// EnrichBatch processes up to batchSize pending entries. Locked entries
// are never touched; with includeFailed, previously failed entries get
// another attempt. One entry failing never aborts the batch.
func (r *Resolver) EnrichBatch(ctx context.Context, batchSize int, includeFailed bool) (*BatchResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	eligible, err := r.store.NeedingEnrichment(includeFailed, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	result := &BatchResult{Total: len(eligible)}

	batch := eligible
	if len(batch) > batchSize {
		batch = batch[:batchSize]
	}

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() && len(batch) > 0 {
		bar = progressbar.NewOptions(len(batch),
			progressbar.OptionSetDescription("Enriching"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	for _, entry := range batch {
		select {
		case <-ctx.Done():
			result.Remaining = result.Total - result.Enriched - result.Failed
			return result, ctx.Err()
		default:
		}

		if err := r.enrichOne(ctx, entry); err != nil {
			util.WarnLog("No match for %q: %v", entry.Title, err)
			result.Failed++
		} else {
			result.Enriched++
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	result.Remaining = result.Total - result.Enriched - result.Failed

	util.SuccessLog("Enrichment: %d enriched, %d failed, %d remaining of %d",
		result.Enriched, result.Failed, result.Remaining, result.Total)

	return result, nil
}

// enrichOne resolves a single entry. Any outcome short of a committed
// match marks the entry failed and returns an error describing why.
func (r *Resolver) enrichOne(ctx context.Context, entry *store.Entry) error {
	started := time.Now()

	r.throttle(ctx)
	match := r.catalog.Search(ctx, entry.Title)
	if match == nil {
		r.markFailed(entry)
		r.logger.LogMatch(entry.FolderPath, entry.Title, 0, 0, store.StatusFailed)
		return fmt.Errorf("no catalog candidate")
	}

	if match.Confidence < AutoMatchThreshold {
		util.InfoLog("Low-confidence match for %q: %d at %.2f, flagged for review",
			entry.Title, match.AppID, match.Confidence)
	}

	committed, err := r.commit(ctx, entry, match.AppID, match.Confidence, store.StatusMatched, false)
	if err != nil {
		r.markFailed(entry)
		return err
	}

	r.logger.LogEnrich(entry.FolderPath, committed.Title, match.AppID, time.Since(started), nil)
	return nil
}

// commit fetches enrichment for an app id and applies everything to the
// entry in one transaction, then dual-writes the sidecar best-effort.
// A fetch failure is returned without touching stored state; whether that
// demotes the entry is the caller's call (enrichOne marks it failed, the
// manual path leaves it as it was).
func (r *Resolver) commit(ctx context.Context, entry *store.Entry, appID int64, confidence float64, status string, locked bool) (*store.Entry, error) {
	r.throttle(ctx)
	details := r.catalog.FetchDetails(ctx, appID)
	if details == nil {
		return nil, fmt.Errorf("catalog has no details for %d", appID)
	}

	r.throttle(ctx)
	reviews := r.catalog.FetchReviews(ctx, appID)

	data := &store.MatchData{
		CatalogID:     appID,
		Confidence:    confidence,
		Title:         details.Name,
		Status:        status,
		Locked:        locked,
		Summary:       details.Summary,
		ReleaseDate:   details.ReleaseDate,
		Genres:        details.Genres,
		Developers:    details.Developers,
		Publishers:    details.Publishers,
		CoverURL:      details.CoverURL,
		BackgroundURL: details.Background,
	}
	if reviews != nil {
		data.ReviewScore = &reviews.Score
		data.ReviewCount = &reviews.Count
		data.ReviewSummary = &reviews.Summary
	}

	committed, err := r.store.CommitMatch(entry.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	r.logger.LogMatch(committed.FolderPath, committed.Title, appID, confidence, status)
	r.writeSidecar(committed)

	if r.images != nil {
		r.images.CacheEntry(ctx, committed)
	}

	return committed, nil
}

// PreviewManual fetches catalog details for a user-supplied reference so
// the user can inspect the candidate before confirming it.
func (r *Resolver) PreviewManual(ctx context.Context, ref string) (*catalog.Details, error) {
	appID, err := ParseCatalogRef(ref)
	if err != nil {
		return nil, err
	}

	r.throttle(ctx)
	details := r.catalog.FetchDetails(ctx, appID)
	if details == nil {
		return nil, fmt.Errorf("catalog has no entry %d", appID)
	}

	return details, nil
}

// ConfirmManual commits a user-chosen catalog id onto an entry. The match
// gets confidence 1.0, manual status, and a lock that keeps automatic
// enrichment away from it permanently.
func (r *Resolver) ConfirmManual(ctx context.Context, entryID int64, ref string) (*store.Entry, error) {
	appID, err := ParseCatalogRef(ref)
	if err != nil {
		return nil, err
	}

	entry, err := r.store.ByID(entryID)
	if err != nil {
		return nil, err
	}

	committed, err := r.commit(ctx, entry, appID, 1.0, store.StatusManual, true)
	if err != nil {
		return nil, err
	}

	util.SuccessLog("Matched %q to %q (%d) manually", entry.Title, committed.Title, appID)
	return committed, nil
}

// ParseCatalogRef turns a user-supplied catalog reference into an app id.
// Accepted forms: a bare numeric id, or a store URL containing /app/<id>.
// Validation happens before any network traffic.
func ParseCatalogRef(ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, fmt.Errorf("empty catalog reference")
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("catalog id must be positive, got %d", id)
		}
		return id, nil
	}

	parsed, err := url.Parse(ref)
	if err != nil || parsed.Host == "" {
		return 0, fmt.Errorf("not a catalog id or store URL: %q", ref)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		if part == "app" && i+1 < len(parts) {
			id, err := strconv.ParseInt(parts[i+1], 10, 64)
			if err != nil || id <= 0 {
				return 0, fmt.Errorf("invalid app id in URL: %q", ref)
			}
			return id, nil
		}
	}

	return 0, fmt.Errorf("no app id found in URL: %q", ref)
}

// markFailed moves an entry to failed status, logging rather than
// propagating any store error so the batch keeps moving.
func (r *Resolver) markFailed(entry *store.Entry) {
	if err := r.store.MarkFailed(entry.ID); err != nil {
		util.ErrorLog("Failed to mark %q as failed: %v", entry.Title, err)
	}
}

// writeSidecar mirrors an entry into its folder, best-effort. The
// database commit has already happened; a read-only or detached folder
// only costs the sidecar, never the match.
func (r *Resolver) writeSidecar(entry *store.Entry) {
	err := sidecar.Write(entry.FolderPath, sidecar.FromEntry(entry))
	if err != nil {
		util.WarnLog("Failed to write sidecar for %q: %v", entry.Title, err)
	}
	r.logger.LogSidecar(entry.FolderPath, err)
}

// throttle spaces catalog requests at least one rate-limit interval
// apart
func (r *Resolver) throttle(ctx context.Context) {
	if r.rateLimit <= 0 {
		return
	}

	if wait := r.rateLimit - time.Since(r.lastRequest); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
	r.lastRequest = time.Now()
}
