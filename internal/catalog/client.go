package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/franz/game-shelf/internal/similarity"
	"github.com/franz/game-shelf/internal/util"
)

const (
	// DefaultStoreBaseURL is the storefront API base URL (details, reviews)
	DefaultStoreBaseURL = "https://store.steampowered.com/api"

	// DefaultSearchBaseURL is the community search endpoint
	DefaultSearchBaseURL = "https://steamcommunity.com/actions/SearchApps"

	// SearchThreshold is the minimum similarity for a search candidate to
	// count as a match at all
	SearchThreshold = 0.60

	// RateLimit is the minimum delay between consecutive requests to the
	// storefront. The delay is applied by the caller orchestrating a batch,
	// not inside each call, so single lookups are not penalized.
	RateLimit = 500 * time.Millisecond

	// maxSearchCandidates bounds how many search results are scored
	maxSearchCandidates = 5
)

// Client queries the external storefront catalog. All transport, status and
// parse failures are logged and collapsed to nil results: nothing in this
// client propagates a raw network error or panics past its boundary.
type Client struct {
	httpClient    *http.Client
	storeBaseURL  string
	searchBaseURL string
}

// Config holds catalog client configuration. Zero values select the public
// storefront endpoints and a 10 second request timeout.
type Config struct {
	StoreBaseURL  string
	SearchBaseURL string
	Timeout       time.Duration
}

// NewClient creates a new catalog client
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.StoreBaseURL == "" {
		cfg.StoreBaseURL = DefaultStoreBaseURL
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		storeBaseURL:  cfg.StoreBaseURL,
		searchBaseURL: cfg.SearchBaseURL,
	}
}

// Search resolves a normalized title to the best-scoring catalog candidate.
// The static override table is consulted first: an exact case-insensitive
// hit returns confidence 1.0 without a network call, and an override of 0
// (known not on the catalog) returns nil without one either. Otherwise the
// top search candidates are scored against the title and the best is
// returned if it clears SearchThreshold. Returns nil when there is no
// acceptable match or the search fails.
func (c *Client) Search(ctx context.Context, title string) *Match {
	if title == "" {
		return nil
	}

	if id, ok := LookupOverride(title); ok {
		if id == 0 {
			util.DebugLog("Catalog: '%s' is known not to be on the catalog", title)
			return nil
		}
		util.InfoLog("Catalog: override hit for '%s': %d", title, id)
		return &Match{AppID: id, Confidence: 1.0}
	}

	urlStr := fmt.Sprintf("%s/%s", c.searchBaseURL, url.PathEscape(title))

	var results []searchResult
	if err := c.getJSON(ctx, urlStr, &results); err != nil {
		util.WarnLog("Catalog search failed for '%s': %v", title, err)
		return nil
	}

	var best *Match
	for i, result := range results {
		if i >= maxSearchCandidates {
			break
		}

		appID, err := strconv.ParseInt(result.AppID, 10, 64)
		if err != nil || result.Name == "" {
			continue
		}

		score := similarity.Score(title, result.Name)
		if best == nil || score > best.Confidence {
			best = &Match{AppID: appID, Confidence: score}
		}
	}

	if best == nil || best.Confidence < SearchThreshold {
		util.InfoLog("Catalog: no match found for '%s'", title)
		return nil
	}

	util.InfoLog("Catalog: matched '%s' to %d (similarity: %.2f)", title, best.AppID, best.Confidence)
	return best
}

// FetchDetails fetches descriptive metadata for an app id. Returns nil on
// any transport or parse failure.
func (c *Client) FetchDetails(ctx context.Context, appID int64) *Details {
	urlStr := fmt.Sprintf("%s/appdetails?appids=%d", c.storeBaseURL, appID)

	var response map[string]detailsResult
	if err := c.getJSON(ctx, urlStr, &response); err != nil {
		util.WarnLog("Failed to fetch catalog details for %d: %v", appID, err)
		return nil
	}

	result, ok := response[strconv.FormatInt(appID, 10)]
	if !ok || !result.Success || result.Data == nil {
		util.DebugLog("Catalog: no details available for %d", appID)
		return nil
	}

	data := result.Data
	details := &Details{
		AppID:      appID,
		Name:       data.Name,
		Summary:    data.ShortDescription,
		CoverURL:   data.HeaderImage,
		Background: data.Background,
		Developers: data.Developers,
		Publishers: data.Publishers,
	}

	for _, genre := range data.Genres {
		details.Genres = append(details.Genres, genre.Description)
	}

	if data.ReleaseDate != nil {
		details.ReleaseDate = data.ReleaseDate.Date
	}

	return details
}

// FetchReviews fetches aggregate review data for an app id. The score is
// computed as positive/(positive+negative)*100; nil is returned when the
// app has no reviews or the request fails.
func (c *Client) FetchReviews(ctx context.Context, appID int64) *Reviews {
	urlStr := fmt.Sprintf(
		"%s/appreviews/%d?json=1&language=all&purchase_type=all&num_per_page=0",
		c.storeBaseURL, appID)

	var response reviewsResponse
	if err := c.getJSON(ctx, urlStr, &response); err != nil {
		util.WarnLog("Failed to fetch catalog reviews for %d: %v", appID, err)
		return nil
	}

	if response.Success != 1 || response.QuerySummary == nil {
		return nil
	}

	summary := response.QuerySummary
	positive := int64Value(summary.TotalPositive)
	negative := int64Value(summary.TotalNegative)

	total := positive + negative
	if total == 0 {
		return nil
	}

	reviews := &Reviews{
		Score: positive * 100 / total,
		Count: int64Value(summary.TotalReviews),
	}
	if summary.ReviewScoreDesc != nil {
		reviews.Summary = *summary.ReviewScoreDesc
	}

	return reviews
}

// getJSON performs a GET request and decodes the JSON response body.
// Non-2xx statuses are errors.
func (c *Client) getJSON(ctx context.Context, urlStr string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
