// Package aggregator orchestrates the fetch → score → persist pipeline.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/showradar/showradar/internal/store"
	"github.com/showradar/showradar/pkg/score"
	"github.com/showradar/showradar/pkg/source"
)

// ErrNoSnapshot is the single checked orchestration error: recalculation
// was requested but nothing has ever been persisted.
var ErrNoSnapshot = store.ErrNoSnapshot

// BundleFetcher produces metric bundles for the current cohort.
type BundleFetcher interface {
	FetchBundles(ctx context.Context) ([]source.ShowMetrics, error)
}

// SnapshotStore persists and retrieves analysis snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, a *score.Analysis) error
	LatestSnapshot(ctx context.Context) (*score.Analysis, error)
}

// Aggregator runs the two analysis entry points: a full refresh that
// re-fetches every source, and a recalculation that re-scores the last
// snapshot without paying the fetch cost.
type Aggregator struct {
	fetcher BundleFetcher
	engine  *score.Engine
	store   SnapshotStore
	log     zerolog.Logger
}

// New creates an aggregator.
func New(fetcher BundleFetcher, engine *score.Engine, st SnapshotStore, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		engine:  engine,
		store:   st,
		log:     log,
	}
}

// FullRefresh fetches fresh bundles for the top tracked shows, scores
// them, and persists the result.
func (a *Aggregator) FullRefresh(ctx context.Context) (*score.Analysis, error) {
	a.log.Info().Msg("starting full analysis")

	bundles, err := a.fetcher.FetchBundles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bundles: %w", err)
	}

	analysis := a.run(ctx, bundles)
	a.log.Info().Int("shows", len(analysis.Results)).Str("run_id", analysis.RunID).Msg("full analysis complete")
	return analysis, nil
}

// Recalculate re-scores the last persisted snapshot. The prior results
// are projected back to raw bundle shape first so the engine re-derives
// every cross-show value instead of consuming stale ones. Returns
// ErrNoSnapshot when nothing has been persisted yet.
func (a *Aggregator) Recalculate(ctx context.Context) (*score.Analysis, error) {
	prior, err := a.store.LatestSnapshot(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	a.log.Info().Str("prior_run", prior.RunID).Msg("recalculating from snapshot")

	analysis := a.run(ctx, prior.Bundles())
	a.log.Info().Int("shows", len(analysis.Results)).Str("run_id", analysis.RunID).Msg("recalculation complete")
	return analysis, nil
}

// run scores a cohort and persists the snapshot. A persistence failure
// is logged but does not discard the analysis; this is a ranking aid,
// not a critical-path system.
func (a *Aggregator) run(ctx context.Context, bundles []source.ShowMetrics) *score.Analysis {
	analysis := &score.Analysis{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Results:   a.engine.Score(bundles),
	}

	if err := a.store.SaveSnapshot(ctx, analysis); err != nil {
		a.log.Warn().Err(err).Str("run_id", analysis.RunID).Msg("snapshot save failed")
	}
	return analysis
}
