package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/showradar/showradar/internal/aggregator"
	"github.com/showradar/showradar/pkg/alert"
	"github.com/showradar/showradar/pkg/score"
)

// Scheduler runs periodic full refreshes and alerts on actionable
// trade signals.
type Scheduler struct {
	agg      *aggregator.Aggregator
	alertMgr *alert.Manager
	interval time.Duration
	minEdge  float64
	log      zerolog.Logger
}

// New creates a new scheduler.
func New(agg *aggregator.Aggregator, alertMgr *alert.Manager, interval time.Duration, minEdge float64, log zerolog.Logger) *Scheduler {
	if interval == 0 {
		interval = 30 * time.Minute
	}
	if minEdge <= 0 {
		minEdge = 5
	}
	return &Scheduler{
		agg:      agg,
		alertMgr: alertMgr,
		interval: interval,
		minEdge:  minEdge,
		log:      log,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	s.refreshAndAlert(ctx)

	s.log.Info().Dur("interval", s.interval).Msg("scheduler running")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.refreshAndAlert(ctx)
		}
	}
}

func (s *Scheduler) refreshAndAlert(ctx context.Context) {
	analysis, err := s.agg.FullRefresh(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
		return
	}

	if !s.alertMgr.HasNotifiers() {
		return
	}

	for _, r := range analysis.Results {
		if r.Recommendation == score.Hold || r.Edge < s.minEdge {
			continue
		}

		sig := &alert.Signal{
			Show:           r.Show,
			Recommendation: string(r.Recommendation),
			FairPrice:      r.FairPrice,
			MarketPrice:    r.Market.ImpliedPrice(),
			Edge:           r.Edge,
			RunID:          analysis.RunID,
		}

		if err := s.alertMgr.Broadcast(ctx, sig); err != nil {
			s.log.Warn().Err(err).Str("show", r.Show).Msg("alert failed")
			continue
		}
		s.log.Info().Str("show", r.Show).Str("signal", string(r.Recommendation)).Float64("edge", r.Edge).Msg("alerted")
	}
}
