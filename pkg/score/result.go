package score

import (
	"time"

	"github.com/showradar/showradar/pkg/source"
)

// Recommendation is a discrete trade signal. BUY and SELL mean the
// model's implied probability diverges from the market's tradeable quote
// by more than the margin, not an instruction to execute a trade.
type Recommendation string

const (
	Buy  Recommendation = "BUY"
	Sell Recommendation = "SELL"
	Hold Recommendation = "HOLD"
)

// Result is one show's scored output: the original metric bundle plus
// the engine-computed fields.
type Result struct {
	source.ShowMetrics

	CompositeScore float64        `json:"composite_score"`
	ViewShare      float64        `json:"view_share"`
	FairPrice      float64        `json:"fair_price"`
	Recommendation Recommendation `json:"recommendation"`
	Edge           float64        `json:"edge"`
}

// Bundle projects the result back to its raw metric-bundle shape,
// discarding every engine-computed field. Re-running the engine on the
// projection of its own output is how recalculation avoids scoring stale
// derived values.
func (r Result) Bundle() source.ShowMetrics {
	return r.ShowMetrics
}

// Analysis is one complete engine run over a cohort: the snapshot unit
// the store persists and the API serves.
type Analysis struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Results   []Result  `json:"shows"`
}

// Bundles projects every result in the analysis back to raw bundle
// shape, preserving order.
func (a *Analysis) Bundles() []source.ShowMetrics {
	bundles := make([]source.ShowMetrics, len(a.Results))
	for i, r := range a.Results {
		bundles[i] = r.Bundle()
	}
	return bundles
}
