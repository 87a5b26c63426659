package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	gnewsBaseURL      = "https://gnews.io/api/v4"
	googleNewsRSSBase = "https://news.google.com/rss/search"
)

// News fetches recent coverage for a show and scores it on volume and
// sentiment. With a GNews API key it uses the JSON search API; without
// one it falls back to the public Google News RSS feed, so the source
// still works keyless.
type News struct {
	client     *http.Client
	parser     *gofeed.Parser
	apiKey     string
	maxResults int
}

// NewNews creates a new news collector. apiKey may be empty.
func NewNews(apiKey string, maxResults int) *News {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &News{
		client:     &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
		apiKey:     apiKey,
		maxResults: maxResults,
	}
}

func (n *News) Name() SourceType { return SourceNews }

// ShowMetrics gathers articles mentioning the show, scores each one's
// sentiment, and condenses volume plus average sentiment into 0-100.
func (n *News) ShowMetrics(ctx context.Context, show string) (NewsMetrics, error) {
	var (
		articles []Article
		err      error
	)
	if n.apiKey != "" {
		articles, err = n.searchGNews(ctx, show)
	} else {
		articles, err = n.searchRSS(ctx, show)
	}
	if err != nil {
		return NewsMetrics{}, err
	}

	score, avg := newsScore(articles)
	return NewsMetrics{
		Score:        score,
		ArticleCount: len(articles),
		AvgSentiment: avg,
		Articles:     articles,
	}, nil
}

func (n *News) searchGNews(ctx context.Context, show string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", show)
	params.Set("lang", "en")
	params.Set("max", fmt.Sprintf("%d", n.maxResults))
	params.Set("sortby", "relevance")
	params.Set("apikey", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gnewsBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create gnews request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch gnews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews status %d", resp.StatusCode)
	}

	var result gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gnews: %w", err)
	}

	var articles []Article
	for _, a := range result.Articles {
		text := a.Title + ". " + a.Description + ". " + a.Content
		articles = append(articles, Article{
			Title:       a.Title,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
			Sentiment:   AnalyzeSentiment(text),
		})
	}
	return articles, nil
}

func (n *News) searchRSS(ctx context.Context, show string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q tv show", show))
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleNewsRSSBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create news rss request: %w", err)
	}
	req.Header.Set("User-Agent", "showradar/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news rss: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news rss status %d", resp.StatusCode)
	}

	parsed, err := n.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news rss: %w", err)
	}

	items := parsed.Items
	if len(items) > n.maxResults {
		items = items[:n.maxResults]
	}

	var articles []Article
	for _, item := range items {
		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		sourceName := ""
		if item.Custom != nil {
			sourceName = item.Custom["source"]
		}
		articles = append(articles, Article{
			Title:       item.Title,
			URL:         item.Link,
			SourceName:  sourceName,
			PublishedAt: published,
			Sentiment:   AnalyzeSentiment(item.Title + ". " + item.Description),
		})
	}
	return articles, nil
}

// newsScore blends coverage volume and average sentiment into 0-100.
// Fifty articles is saturation-level coverage for a single show; neutral
// sentiment maps to the middle of the sentiment half.
func newsScore(articles []Article) (score, avgSentiment float64) {
	if len(articles) == 0 {
		return 0, 0
	}

	var sum float64
	for _, a := range articles {
		sum += a.Sentiment
	}
	avgSentiment = sum / float64(len(articles))

	volume := float64(len(articles))
	if volume > 50 {
		volume = 50
	}
	volumeScore := volume / 50 * 100
	sentimentScore := (avgSentiment + 1) / 2 * 100

	return 0.5*volumeScore + 0.5*sentimentScore, avgSentiment
}

type gnewsResponse struct {
	Articles []struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Content     string    `json:"content"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"source"`
	} `json:"articles"`
}
