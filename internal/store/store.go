package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/showradar/showradar/pkg/score"
)

// ErrNoSnapshot is returned when no analysis has ever been persisted.
var ErrNoSnapshot = errors.New("no analysis snapshot recorded")

// MetricRow is one show's scored metrics from a past run, used for
// history displays.
type MetricRow struct {
	RunID          string    `db:"run_id" json:"run_id"`
	Show           string    `db:"show" json:"show"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	Composite      float64   `db:"composite" json:"composite"`
	FairPrice      float64   `db:"fair_price" json:"fair_price"`
	Recommendation string    `db:"recommendation" json:"recommendation"`
	Edge           float64   `db:"edge" json:"edge"`
	Market         float64   `db:"market" json:"market"`
	Engagement     float64   `db:"engagement" json:"engagement"`
	News           float64   `db:"news" json:"news"`
	Metadata       float64   `db:"metadata" json:"metadata"`
	PageViews      int64     `db:"page_views" json:"page_views"`
}

// Store is the persistence interface. Snapshots are opaque blobs keyed
// by recency; history rows are derived per-show records for display.
type Store interface {
	SaveSnapshot(ctx context.Context, a *score.Analysis) error
	LatestSnapshot(ctx context.Context) (*score.Analysis, error)
	ListHistory(ctx context.Context, show string, limit int) ([]MetricRow, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot persists a full analysis plus one history row per show,
// in a single transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, a *score.Analysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", a.RunID, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analysis_snapshots (run_id, created_at, payload)
		VALUES (?, ?, ?)
	`, a.RunID, a.Timestamp, string(payload)); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", a.RunID, err)
	}

	for _, r := range a.Results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO metric_history
				(run_id, show, created_at, composite, fair_price, recommendation, edge,
				 market, engagement, news, metadata, page_views)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.RunID, r.Show, a.Timestamp, r.CompositeScore, r.FairPrice,
			string(r.Recommendation), r.Edge, r.Market.ImpliedPrice(),
			r.Engagement.Score, r.News.Score, r.Metadata.Score, r.PageViews.Total); err != nil {
			return fmt.Errorf("insert history %s/%s: %w", a.RunID, r.Show, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot %s: %w", a.RunID, err)
	}
	return nil
}

// LatestSnapshot returns the most recently persisted analysis, or
// ErrNoSnapshot if none exists.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*score.Analysis, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM analysis_snapshots ORDER BY created_at DESC, run_id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}

	var a score.Analysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("decode latest snapshot: %w", err)
	}
	return &a, nil
}

// ListHistory returns past scored metrics, newest first, optionally
// filtered to one show.
func (s *SQLiteStore) ListHistory(ctx context.Context, show string, limit int) ([]MetricRow, error) {
	query := "SELECT run_id, show, created_at, composite, fair_price, recommendation, edge, market, engagement, news, metadata, page_views FROM metric_history"
	var args []any

	if show != "" {
		query += " WHERE show = ?"
		args = append(args, show)
	}

	query += " ORDER BY created_at DESC"

	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var rows []MetricRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return rows, nil
}
