package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const wikiPageviewsBase = "https://wikimedia.org/api/rest_v1/metrics/pageviews/per-article"

// Wikipedia fetches daily page-view counts for a show's article over a
// trailing window. The Wikimedia REST API requires a descriptive
// User-Agent with contact info.
type Wikipedia struct {
	client    *http.Client
	project   string
	userAgent string
	window    time.Duration
	now       func() time.Time
}

// NewWikipedia creates a new page-view collector for the given project
// (e.g. "en.wikipedia"). The trailing window is 7 days.
func NewWikipedia(project, userAgent string) *Wikipedia {
	if project == "" {
		project = "en.wikipedia"
	}
	if userAgent == "" {
		userAgent = "showradar/1.0 (https://github.com/showradar/showradar)"
	}
	return &Wikipedia{
		client:    &http.Client{Timeout: 10 * time.Second},
		project:   project,
		userAgent: userAgent,
		window:    7 * 24 * time.Hour,
		now:       time.Now,
	}
}

func (w *Wikipedia) Name() SourceType { return SourceWikipedia }

// ShowMetrics returns the show's daily page-view series and total over
// the trailing window.
func (w *Wikipedia) ShowMetrics(ctx context.Context, show string) (PageViewMetrics, error) {
	article := WikipediaArticle(show)
	end := w.now().UTC()
	start := end.Add(-w.window)

	reqURL := fmt.Sprintf("%s/%s/all-access/all-agents/%s/daily/%s/%s",
		wikiPageviewsBase, w.project, article,
		start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return PageViewMetrics{}, fmt.Errorf("create pageviews request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return PageViewMetrics{}, fmt.Errorf("fetch pageviews %s: %w", article, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PageViewMetrics{}, fmt.Errorf("pageviews %s status %d", article, resp.StatusCode)
	}

	var result wikiPageviewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PageViewMetrics{}, fmt.Errorf("decode pageviews %s: %w", article, err)
	}

	metrics := PageViewMetrics{Article: article}
	for _, item := range result.Items {
		date := item.Timestamp
		if len(date) > 8 {
			date = date[:8]
		}
		metrics.Points = append(metrics.Points, PageViewPoint{Date: date, Views: item.Views})
		metrics.Total += item.Views
	}
	return metrics, nil
}

type wikiPageviewsResponse struct {
	Items []struct {
		Timestamp string `json:"timestamp"`
		Views     int64  `json:"views"`
	} `json:"items"`
}
