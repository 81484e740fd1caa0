package catalog

// Match is the outcome of a catalog search: the best-scoring candidate and
// the similarity confidence that selected it.
type Match struct {
	AppID      int64
	Confidence float64
}

// Details holds the descriptive metadata for a catalog entry.
type Details struct {
	AppID       int64
	Name        string
	Summary     *string
	CoverURL    *string
	Background  *string
	Developers  []string
	Publishers  []string
	Genres      []string
	ReleaseDate *string
}

// Reviews holds the aggregate review data for a catalog entry.
type Reviews struct {
	Score   int64 // percentage of positive reviews, 0-100
	Count   int64
	Summary string // qualitative label, e.g. "Very Positive"
}

// searchResult is one candidate from the store's text search endpoint.
// App ids come over the wire as strings.
type searchResult struct {
	AppID string `json:"appid"`
	Name  string `json:"name"`
}

// detailsResponse maps app id (as a string key) to the per-app result.
type detailsResult struct {
	Success bool         `json:"success"`
	Data    *detailsData `json:"data"`
}

type detailsData struct {
	AppID            int64        `json:"steam_appid"`
	Name             string       `json:"name"`
	ShortDescription *string      `json:"short_description"`
	HeaderImage      *string      `json:"header_image"`
	Background       *string      `json:"background"`
	Developers       []string     `json:"developers"`
	Publishers       []string     `json:"publishers"`
	Genres           []genreEntry `json:"genres"`
	ReleaseDate      *releaseDate `json:"release_date"`
}

type genreEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type releaseDate struct {
	ComingSoon bool    `json:"coming_soon"`
	Date       *string `json:"date"`
}

type reviewsResponse struct {
	Success      int           `json:"success"`
	QuerySummary *querySummary `json:"query_summary"`
}

type querySummary struct {
	ReviewScoreDesc *string `json:"review_score_desc"`
	TotalPositive   *int64  `json:"total_positive"`
	TotalNegative   *int64  `json:"total_negative"`
	TotalReviews    *int64  `json:"total_reviews"`
}
