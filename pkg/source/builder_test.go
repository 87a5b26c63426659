package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuilderFetchBundles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"markets": [
				{"ticker": "KX-A", "subtitle": "Stranger Things: Season 5", "last_price": 61, "yes_bid": 58, "yes_ask": 63},
				{"ticker": "KX-B", "subtitle": "Wednesday 2", "last_price": 24},
				{"ticker": "KX-C", "subtitle": "", "last_price": 15},
				{"ticker": "KX-D", "subtitle": "Squid Game", "last_price": 9}
			]
		}`)
	}))
	t.Cleanup(srv.Close)

	kalshi := NewKalshi(srv.URL, "KXNETFLIXRANK")
	b := NewBuilder(kalshi, nil, nil, nil, nil, 3, zerolog.Nop())

	bundles, err := b.FetchBundles(context.Background())
	if err != nil {
		t.Fatalf("FetchBundles: %v", err)
	}

	// Top 3 markets minus the one with no subtitle.
	if len(bundles) != 2 {
		t.Fatalf("got %d bundles, want 2", len(bundles))
	}
	if bundles[0].Show != "Stranger Things" {
		t.Errorf("bundles[0].Show = %q, want Stranger Things", bundles[0].Show)
	}
	if bundles[1].Show != "Wednesday" {
		t.Errorf("bundles[1].Show = %q, want Wednesday", bundles[1].Show)
	}

	first := bundles[0]
	if first.Market == nil || first.Market.Ticker != "KX-A" {
		t.Errorf("market quote not attached: %+v", first.Market)
	}
	// Disabled popularity sources leave zero-valued slots.
	if first.Engagement.Score != 0 || first.News.Score != 0 ||
		first.Metadata.Score != 0 || first.PageViews.Total != 0 {
		t.Errorf("disabled sources should leave zero metrics: %+v", first)
	}
}

func TestBuilderFetchBundlesMarketFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	kalshi := NewKalshi(srv.URL, "KXNETFLIXRANK")
	b := NewBuilder(kalshi, nil, nil, nil, nil, 5, zerolog.Nop())

	if _, err := b.FetchBundles(context.Background()); err == nil {
		t.Fatal("expected error when the market source is down, got nil")
	}
}
