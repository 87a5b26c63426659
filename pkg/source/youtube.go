package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ytSearchURL = "https://www.googleapis.com/youtube/v3/search"
	ytVideosURL = "https://www.googleapis.com/youtube/v3/videos"
)

// YouTube fetches trailer engagement metrics for a show.
type YouTube struct {
	client     *http.Client
	apiKey     string
	maxResults int
}

// NewYouTube creates a new YouTube collector.
func NewYouTube(apiKey string, maxResults int) *YouTube {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &YouTube{
		client:     &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		maxResults: maxResults,
	}
}

func (y *YouTube) Name() SourceType { return SourceYouTube }

// ShowMetrics searches for the show's official trailer, fetches stats for
// the top results, and condenses them into a 0-100 engagement score.
func (y *YouTube) ShowMetrics(ctx context.Context, show string) (EngagementMetrics, error) {
	if y.apiKey == "" {
		return EngagementMetrics{}, fmt.Errorf("youtube: API key required (set YOUTUBE_API_KEY)")
	}

	query := show + " official trailer"
	videos, err := y.search(ctx, query)
	if err != nil {
		return EngagementMetrics{}, err
	}

	if len(videos) > 0 {
		if err := y.enrichWithStats(ctx, videos); err != nil {
			return EngagementMetrics{}, err
		}
	}

	return EngagementMetrics{
		Score:  engagementScore(videos),
		Query:  query,
		Videos: videos,
	}, nil
}

func (y *YouTube) search(ctx context.Context, query string) ([]VideoStats, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("order", "relevance")
	params.Set("maxResults", fmt.Sprintf("%d", y.maxResults))
	params.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create youtube search request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search status %d", resp.StatusCode)
	}

	var result ytSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube search: %w", err)
	}

	var videos []VideoStats
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, VideoStats{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			Channel:     item.Snippet.ChannelTitle,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

func (y *YouTube) enrichWithStats(ctx context.Context, videos []VideoStats) error {
	ids := make([]string, len(videos))
	idMap := make(map[string]int, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
		idMap[v.VideoID] = i
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytVideosURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create youtube stats request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch youtube stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube stats status %d", resp.StatusCode)
	}

	var result ytVideoResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode youtube stats: %w", err)
	}

	for _, video := range result.Items {
		if idx, ok := idMap[video.ID]; ok {
			videos[idx].Views = video.Statistics.ViewCount
			videos[idx].Likes = video.Statistics.LikeCount
			videos[idx].Comments = video.Statistics.CommentCount
		}
	}
	return nil
}

// engagementScore maps trailer view volume to 0-100. View counts have no
// absolute scale, so averages are bucketed on a rough log scale: 5M+
// average views is ceiling-level hype for a TV trailer, 10k is barely
// registering. A small lift rewards unusually interactive audiences.
func engagementScore(videos []VideoStats) float64 {
	if len(videos) == 0 {
		return 0
	}

	var views, likes, comments int64
	for _, v := range videos {
		views += v.Views
		likes += v.Likes
		comments += v.Comments
	}

	avg := float64(views) / float64(len(videos))
	var base float64
	switch {
	case avg >= 5_000_000:
		base = 100
	case avg >= 1_000_000:
		base = 80 + (avg-1_000_000)/4_000_000*20
	case avg >= 100_000:
		base = 50 + (avg-100_000)/900_000*30
	case avg >= 10_000:
		base = 20 + (avg-10_000)/90_000*30
	default:
		base = avg / 10_000 * 20
	}

	if views > 0 {
		// Typical like ratio sits around 1-4% of views; above that the
		// audience is unusually engaged.
		ratio := float64(likes+comments) / float64(views)
		if ratio > 0.04 {
			base += 5
		}
	}

	if base > 100 {
		base = 100
	}
	return base
}

type ytSearchResult struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideoResult struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount    int64 `json:"viewCount,string"`
			LikeCount    int64 `json:"likeCount,string"`
			CommentCount int64 `json:"commentCount,string"`
		} `json:"statistics"`
	} `json:"items"`
}
