package source

import "time"

// SourceType identifies which upstream a metric came from.
type SourceType string

const (
	SourceKalshi    SourceType = "kalshi"
	SourceYouTube   SourceType = "youtube"
	SourceNews      SourceType = "news"
	SourceTMDB      SourceType = "tmdb"
	SourceWikipedia SourceType = "wikipedia"
)

// MarketQuote is an observed prediction-market quote for one show.
// Price fields are in cents (0-100) and nil when the market has never
// traded or quoted that side. Absent and zero are distinct states: a
// market can legitimately quote 0.
type MarketQuote struct {
	Ticker       string   `json:"ticker"`
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	LastPrice    *float64 `json:"last_price,omitempty"`
	YesBid       *float64 `json:"yes_bid,omitempty"`
	YesAsk       *float64 `json:"yes_ask,omitempty"`
	NoBid        *float64 `json:"no_bid,omitempty"`
	NoAsk        *float64 `json:"no_ask,omitempty"`
	Volume       int64    `json:"volume"`
	OpenInterest int64    `json:"open_interest"`
}

// ImpliedPrice returns the market's implied probability in cents using a
// prioritized fallback: last traded price when present and non-zero, else
// best yes bid when present, else 0. A present-but-zero last price falls
// through to the bid, since zero there means "no trade yet" rather than
// "market believes 0%".
func (m *MarketQuote) ImpliedPrice() float64 {
	if m == nil {
		return 0
	}
	if m.LastPrice != nil && *m.LastPrice != 0 {
		return *m.LastPrice
	}
	if m.YesBid != nil {
		return *m.YesBid
	}
	return 0
}

// VideoStats holds per-video statistics from the YouTube Data API.
type VideoStats struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	PublishedAt time.Time `json:"published_at"`
}

// EngagementMetrics is the YouTube trailer-engagement slot of a bundle.
type EngagementMetrics struct {
	Score  float64      `json:"score"`
	Query  string       `json:"query,omitempty"`
	Videos []VideoStats `json:"videos,omitempty"`
}

// Article is a single news article with its sentiment score in [-1, 1].
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   float64   `json:"sentiment"`
}

// NewsMetrics is the news sentiment+volume slot of a bundle.
type NewsMetrics struct {
	Score        float64   `json:"score"`
	ArticleCount int       `json:"article_count"`
	AvgSentiment float64   `json:"avg_sentiment"`
	Articles     []Article `json:"articles,omitempty"`
}

// MetadataMetrics is the TMDB rating/popularity/trending slot of a bundle.
type MetadataMetrics struct {
	Score       float64 `json:"score"`
	TMDBID      int64   `json:"tmdb_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	Trending    bool    `json:"trending"`
}

// PageViewPoint is one day of Wikipedia page views.
type PageViewPoint struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// PageViewMetrics is the Wikipedia page-view slot of a bundle. Total is
// the raw view volume over the trailing window; the cross-show share is
// computed by the scoring engine, not here.
type PageViewMetrics struct {
	Total   int64           `json:"total"`
	Article string          `json:"article,omitempty"`
	Points  []PageViewPoint `json:"points,omitempty"`
}

// ShowMetrics is the full metric bundle for one tracked show, the input
// shape of the scoring engine. Every slot carries a zero-valued default
// when its upstream fetch fails; the engine never sees a missing slot.
type ShowMetrics struct {
	Show       string            `json:"show_name"`
	Market     *MarketQuote      `json:"market,omitempty"`
	Engagement EngagementMetrics `json:"engagement"`
	News       NewsMetrics       `json:"news"`
	Metadata   MetadataMetrics   `json:"metadata"`
	PageViews  PageViewMetrics   `json:"page_views"`
}
