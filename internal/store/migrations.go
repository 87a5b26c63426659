package store

const schema = `
CREATE TABLE IF NOT EXISTS analysis_snapshots (
    run_id     TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    payload    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created ON analysis_snapshots(created_at);

CREATE TABLE IF NOT EXISTS metric_history (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         TEXT NOT NULL REFERENCES analysis_snapshots(run_id),
    show           TEXT NOT NULL,
    created_at     DATETIME NOT NULL,
    composite      REAL NOT NULL DEFAULT 0,
    fair_price     REAL NOT NULL DEFAULT 0,
    recommendation TEXT NOT NULL DEFAULT 'HOLD',
    edge           REAL NOT NULL DEFAULT 0,
    market         REAL NOT NULL DEFAULT 0,
    engagement     REAL NOT NULL DEFAULT 0,
    news           REAL NOT NULL DEFAULT 0,
    metadata       REAL NOT NULL DEFAULT 0,
    page_views     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_history_show ON metric_history(show);
CREATE INDEX IF NOT EXISTS idx_history_created ON metric_history(created_at);
`
