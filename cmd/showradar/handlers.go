package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/showradar/showradar/internal/aggregator"
	"github.com/showradar/showradar/internal/config"
	"github.com/showradar/showradar/internal/logger"
	"github.com/showradar/showradar/internal/scheduler"
	"github.com/showradar/showradar/internal/store"
	"github.com/showradar/showradar/pkg/alert"
	"github.com/showradar/showradar/pkg/score"
	"github.com/showradar/showradar/pkg/server"
	"github.com/showradar/showradar/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// app bundles the wired components every command needs.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	db  *store.SQLiteStore
	agg *aggregator.Aggregator
}

func buildApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	builder := buildSources(cfg, log)
	engine := score.NewEngine(cfg.Scoring.Weights, cfg.Scoring.Margin)
	agg := aggregator.New(builder, engine, db, log)

	return &app{cfg: cfg, log: log, db: db, agg: agg}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func buildSources(cfg *config.Config, log zerolog.Logger) *source.Builder {
	kalshi := source.NewKalshi(cfg.Sources.Kalshi.BaseURL, cfg.Sources.Kalshi.EventTicker)

	var youtube *source.YouTube
	if cfg.Sources.YouTube.Enabled {
		youtube = source.NewYouTube(cfg.Sources.YouTube.APIKey, cfg.Sources.YouTube.MaxResults)
	}

	var news *source.News
	if cfg.Sources.News.Enabled {
		news = source.NewNews(cfg.Sources.News.APIKey, cfg.Sources.News.MaxResults)
	}

	var tmdb *source.TMDB
	if cfg.Sources.TMDB.Enabled {
		tmdb = source.NewTMDB(cfg.Sources.TMDB.APIKey)
	}

	var wikipedia *source.Wikipedia
	if cfg.Sources.Wikipedia.Enabled {
		wikipedia = source.NewWikipedia(cfg.Sources.Wikipedia.Project, cfg.Sources.Wikipedia.UserAgent)
	}

	return source.NewBuilder(kalshi, youtube, news, tmdb, wikipedia, cfg.Scoring.TopN, log)
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runRefresh(jsonOutput bool) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.agg.FullRefresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	return printAnalysis(analysis, jsonOutput)
}

func runRecalc(jsonOutput bool) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.agg.Recalculate(context.Background())
	if errors.Is(err, aggregator.ErrNoSnapshot) {
		fmt.Println("no analysis snapshot recorded yet (run: showradar refresh)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("recalculate: %w", err)
	}

	return printAnalysis(analysis, jsonOutput)
}

func runTop(jsonOutput bool) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.db.LatestSnapshot(context.Background())
	if errors.Is(err, store.ErrNoSnapshot) {
		fmt.Println("no analysis snapshot recorded yet (run: showradar refresh)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	return printAnalysis(analysis, jsonOutput)
}

func runServe(port int) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	srv := server.New(a.db, a.agg, port, a.log)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(a.agg, buildAlertManager(a.cfg),
		a.cfg.Schedule.ParseRefreshInterval(), a.cfg.Alerts.MinEdge, a.log)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			a.log.Error().Err(err).Msg("scheduler error")
		}
	}()

	go func() {
		<-ctx.Done()
		a.log.Info().Msg("shutting down")
	}()

	srv := server.New(a.db, a.agg, port, a.log)
	return srv.ListenAndServe()
}

func printAnalysis(analysis *score.Analysis, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	if len(analysis.Results) == 0 {
		fmt.Println("no shows in latest analysis")
		return nil
	}

	fmt.Printf("analysis %s (%s)\n\n", analysis.RunID, analysis.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHOW\tCOMPOSITE\tFAIR\tMARKET\tSIGNAL\tEDGE")
	for _, r := range analysis.Results {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%s\t%.1f\n",
			r.Show, r.CompositeScore, r.FairPrice,
			r.Market.ImpliedPrice(), r.Recommendation, r.Edge)
	}
	return w.Flush()
}
