package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Builder assembles metric bundles for the top tracked shows. The market
// source decides the cohort (top-N markets by implied price); the four
// popularity sources fill in the remaining slots. A failing popularity
// fetch degrades that slot to its zero value and never drops the show or
// aborts the cohort; only a market failure is fatal, since without it
// there is no cohort at all.
type Builder struct {
	kalshi    *Kalshi
	youtube   *YouTube
	news      *News
	tmdb      *TMDB
	wikipedia *Wikipedia
	topN      int
	log       zerolog.Logger
}

// NewBuilder creates a bundle builder. Any popularity source may be nil
// (disabled); its slot then stays zero-valued.
func NewBuilder(kalshi *Kalshi, youtube *YouTube, news *News, tmdb *TMDB, wikipedia *Wikipedia, topN int, log zerolog.Logger) *Builder {
	if topN <= 0 {
		topN = 5
	}
	return &Builder{
		kalshi:    kalshi,
		youtube:   youtube,
		news:      news,
		tmdb:      tmdb,
		wikipedia: wikipedia,
		topN:      topN,
		log:       log,
	}
}

// FetchBundles fetches the top markets and builds one complete metric
// bundle per show.
func (b *Builder) FetchBundles(ctx context.Context) ([]ShowMetrics, error) {
	quotes, err := b.kalshi.TopMarkets(ctx, b.topN)
	if err != nil {
		return nil, fmt.Errorf("fetch top markets: %w", err)
	}

	var bundles []ShowMetrics
	for i := range quotes {
		quote := quotes[i]
		show := NormalizeShowName(quote.Subtitle)
		if show == "" {
			b.log.Warn().Str("ticker", quote.Ticker).Msg("market has no subtitle, skipping")
			continue
		}

		b.log.Debug().Str("show", show).Str("ticker", quote.Ticker).Msg("aggregating show")
		bundles = append(bundles, b.buildBundle(ctx, show, &quote))
	}
	return bundles, nil
}

func (b *Builder) buildBundle(ctx context.Context, show string, quote *MarketQuote) ShowMetrics {
	bundle := ShowMetrics{Show: show, Market: quote}

	if b.youtube != nil {
		engagement, err := b.youtube.ShowMetrics(ctx, show)
		if err != nil {
			b.log.Warn().Err(err).Str("show", show).Msg("youtube fetch failed")
		} else {
			bundle.Engagement = engagement
		}
	}

	if b.news != nil {
		news, err := b.news.ShowMetrics(ctx, show)
		if err != nil {
			b.log.Warn().Err(err).Str("show", show).Msg("news fetch failed")
		} else {
			bundle.News = news
		}
	}

	if b.tmdb != nil {
		metadata, err := b.tmdb.ShowMetrics(ctx, show)
		if err != nil {
			b.log.Warn().Err(err).Str("show", show).Msg("tmdb fetch failed")
		} else {
			bundle.Metadata = metadata
		}
	}

	if b.wikipedia != nil {
		views, err := b.wikipedia.ShowMetrics(ctx, show)
		if err != nil {
			b.log.Warn().Err(err).Str("show", show).Msg("wikipedia fetch failed")
		} else {
			bundle.PageViews = views
		}
	}

	return bundle
}
