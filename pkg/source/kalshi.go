package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// Kalshi fetches market quotes for one prediction-market event. Only the
// public market endpoints are used; authenticated trading endpoints are
// out of scope.
type Kalshi struct {
	client      *http.Client
	baseURL     string
	eventTicker string
}

// NewKalshi creates a new Kalshi market client.
func NewKalshi(baseURL, eventTicker string) *Kalshi {
	return &Kalshi{
		client:      &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		eventTicker: eventTicker,
	}
}

func (k *Kalshi) Name() SourceType { return SourceKalshi }

// EventMarkets returns all open markets for the configured event.
func (k *Kalshi) EventMarkets(ctx context.Context) ([]MarketQuote, error) {
	params := url.Values{}
	params.Set("event_ticker", k.eventTicker)
	params.Set("status", "open")
	params.Set("limit", "1000")

	reqURL := k.baseURL + "/markets?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create kalshi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch kalshi markets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kalshi markets status %d", resp.StatusCode)
	}

	var result kalshiMarketsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode kalshi markets: %w", err)
	}

	quotes := make([]MarketQuote, 0, len(result.Markets))
	for _, m := range result.Markets {
		quotes = append(quotes, MarketQuote{
			Ticker:       m.Ticker,
			Title:        m.Title,
			Subtitle:     m.Subtitle,
			LastPrice:    m.LastPrice,
			YesBid:       m.YesBid,
			YesAsk:       m.YesAsk,
			NoBid:        m.NoBid,
			NoAsk:        m.NoAsk,
			Volume:       m.Volume,
			OpenInterest: m.OpenInterest,
		})
	}
	return quotes, nil
}

// TopMarkets returns the n highest-priced markets for the event, ranked
// by the same implied-price fallback the scoring engine uses. The
// truncation happens here, before any popularity source is queried.
func (k *Kalshi) TopMarkets(ctx context.Context, n int) ([]MarketQuote, error) {
	if n <= 0 {
		n = 5
	}

	quotes, err := k.EventMarkets(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].ImpliedPrice() > quotes[j].ImpliedPrice()
	})

	if len(quotes) > n {
		quotes = quotes[:n]
	}
	return quotes, nil
}

type kalshiMarketsResponse struct {
	Markets []struct {
		Ticker       string   `json:"ticker"`
		Title        string   `json:"title"`
		Subtitle     string   `json:"subtitle"`
		LastPrice    *float64 `json:"last_price"`
		YesBid       *float64 `json:"yes_bid"`
		YesAsk       *float64 `json:"yes_ask"`
		NoBid        *float64 `json:"no_bid"`
		NoAsk        *float64 `json:"no_ask"`
		Volume       int64    `json:"volume"`
		OpenInterest int64    `json:"open_interest"`
	} `json:"markets"`
}
