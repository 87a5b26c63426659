package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// TMDB fetches rating, popularity, and trending status for a show.
type TMDB struct {
	client *http.Client
	apiKey string
}

// NewTMDB creates a new TMDB collector.
func NewTMDB(apiKey string) *TMDB {
	return &TMDB{
		client: &http.Client{Timeout: 10 * time.Second},
		apiKey: apiKey,
	}
}

func (t *TMDB) Name() SourceType { return SourceTMDB }

// ShowMetrics looks the show up by name, checks the daily trending list,
// and condenses rating + popularity + trending membership into 0-100.
func (t *TMDB) ShowMetrics(ctx context.Context, show string) (MetadataMetrics, error) {
	if t.apiKey == "" {
		return MetadataMetrics{}, fmt.Errorf("tmdb: API key required (set TMDB_API_KEY)")
	}

	match, err := t.searchTV(ctx, show)
	if err != nil {
		return MetadataMetrics{}, err
	}
	if match == nil {
		// Unknown to TMDB; a zero slot, not an error.
		return MetadataMetrics{}, nil
	}

	trending, err := t.isTrending(ctx, match.ID)
	if err != nil {
		// Trending is a bonus signal; rating and popularity still count.
		trending = false
	}

	return MetadataMetrics{
		Score:       metadataScore(match.VoteAverage, match.Popularity, trending),
		TMDBID:      match.ID,
		Name:        match.Name,
		VoteAverage: match.VoteAverage,
		Popularity:  match.Popularity,
		Trending:    trending,
	}, nil
}

func (t *TMDB) searchTV(ctx context.Context, query string) (*tmdbShow, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", "en-US")
	params.Set("include_adult", "false")
	params.Set("api_key", t.apiKey)

	var result tmdbListResponse
	if err := t.get(ctx, "/search/tv?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return &result.Results[0], nil
}

func (t *TMDB) isTrending(ctx context.Context, tvID int64) (bool, error) {
	params := url.Values{}
	params.Set("language", "en-US")
	params.Set("api_key", t.apiKey)

	var result tmdbListResponse
	if err := t.get(ctx, "/trending/tv/day?"+params.Encode(), &result); err != nil {
		return false, fmt.Errorf("tmdb trending: %w", err)
	}
	for _, r := range result.Results {
		if r.ID == tvID {
			return true, nil
		}
	}
	return false, nil
}

func (t *TMDB) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tmdbBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// metadataScore combines audience rating (40%), popularity (40%), and
// daily-trending membership (20%). TMDB popularity is unbounded, so it is
// bucketed on a rough log scale where 1000+ is chart-topping.
func metadataScore(voteAverage, popularity float64, trending bool) float64 {
	ratingScore := voteAverage * 10
	if ratingScore > 100 {
		ratingScore = 100
	}

	var popScore float64
	switch {
	case popularity >= 1000:
		popScore = 100
	case popularity >= 100:
		popScore = 60 + (popularity-100)/900*40
	case popularity >= 10:
		popScore = 20 + (popularity-10)/90*40
	default:
		popScore = popularity / 10 * 20
	}

	trendScore := 0.0
	if trending {
		trendScore = 100
	}

	return 0.4*ratingScore + 0.4*popScore + 0.2*trendScore
}

type tmdbShow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

type tmdbListResponse struct {
	Results []tmdbShow `json:"results"`
}
