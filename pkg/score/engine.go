// Package score ranks metric bundles into a composite score, a
// probability-normalized fair price, and a trade signal per show. The
// engine is pure: no I/O, no shared state, deterministic for a given
// input. It never fails on malformed input; every missing metric
// substitutes zero and a degenerate cohort yields an all-zero HOLD
// ranking rather than an error.
package score

import (
	"math"
	"sort"

	"github.com/showradar/showradar/pkg/source"
)

// Weights are the five composite-score component weights. They are a
// tunable policy and must sum to 1.
type Weights struct {
	Market     float64 `yaml:"market" json:"market"`
	Engagement float64 `yaml:"engagement" json:"engagement"`
	News       float64 `yaml:"news" json:"news"`
	Metadata   float64 `yaml:"metadata" json:"metadata"`
	ViewShare  float64 `yaml:"view_share" json:"view_share"`
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Market + w.Engagement + w.News + w.Metadata + w.ViewShare
}

// DefaultWeights returns the standard component weights.
func DefaultWeights() Weights {
	return Weights{
		Market:     0.50,
		Engagement: 0.20,
		News:       0.15,
		Metadata:   0.10,
		ViewShare:  0.05,
	}
}

// DefaultMargin is the minimum fair-price/quote gap, in cents, before a
// BUY or SELL signal fires. Gaps inside the margin are noise.
const DefaultMargin = 5.0

// Engine computes scored, ranked results from metric bundles. Safe for
// concurrent use; each call owns its input slice.
type Engine struct {
	weights Weights
	margin  float64
}

// NewEngine creates a scoring engine. Zero-valued weights or margin fall
// back to the defaults.
func NewEngine(weights Weights, margin float64) *Engine {
	if weights.Sum() == 0 {
		weights = DefaultWeights()
	}
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Engine{weights: weights, margin: margin}
}

// Score transforms a cohort of bundles into ranked results, sorted by
// fair price descending with input order as the tiebreak.
//
// Three passes: (1) sum page views across the cohort, since each show's
// view share depends on every other show's volume; (2) compute each
// show's weighted composite while accumulating the cohort total; (3)
// normalize composites into fair prices and derive the trade signal.
func (e *Engine) Score(bundles []source.ShowMetrics) []Result {
	results := make([]Result, len(bundles))

	var totalViews int64
	for i := range bundles {
		totalViews += bundles[i].PageViews.Total
	}

	var totalComposite float64
	composites := make([]float64, len(bundles))
	for i := range bundles {
		b := bundles[i]

		viewShare := 0.0
		if totalViews > 0 {
			viewShare = 100 * float64(b.PageViews.Total) / float64(totalViews)
		}

		composite := e.weights.Market*b.Market.ImpliedPrice() +
			e.weights.Engagement*b.Engagement.Score +
			e.weights.News*b.News.Score +
			e.weights.Metadata*b.Metadata.Score +
			e.weights.ViewShare*viewShare

		composites[i] = composite
		totalComposite += composite

		results[i] = Result{
			ShowMetrics: b,
			ViewShare:   round1(viewShare),
		}
	}

	for i := range results {
		fair := 0.0
		if totalComposite > 0 {
			fair = 100 * composites[i] / totalComposite
		}

		results[i].CompositeScore = round1(composites[i])
		results[i].FairPrice = round1(fair)
		results[i].Recommendation, results[i].Edge = e.signal(fair, results[i].Market)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FairPrice > results[j].FairPrice
	})
	return results
}

// signal compares the model's fair price against the tradeable quote.
// With no ask there is nothing to buy cheaply (ask defaults to 100); with
// no bid there is nothing to sell well (bid defaults to 0), so a market
// with no quotes can only HOLD.
func (e *Engine) signal(fairPrice float64, m *source.MarketQuote) (Recommendation, float64) {
	ask, bid := 100.0, 0.0
	if m != nil {
		if m.YesAsk != nil {
			ask = *m.YesAsk
		}
		if m.YesBid != nil {
			bid = *m.YesBid
		}
	}

	switch {
	case fairPrice > ask+e.margin:
		return Buy, round1(fairPrice - ask)
	case fairPrice < bid-e.margin:
		return Sell, round1(bid - fairPrice)
	}
	return Hold, 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
