package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS deals (
    ticket INTEGER PRIMARY KEY,
    time TEXT NOT NULL,
    symbol TEXT NOT NULL,
    type INTEGER NOT NULL,
    price REAL NOT NULL,
    volume REAL NOT NULL,
    profit REAL NOT NULL,
    position_id INTEGER NOT NULL DEFAULT 0,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_deals_time ON deals(time);
CREATE INDEX IF NOT EXISTS idx_deals_symbol ON deals(symbol);

CREATE TABLE IF NOT EXISTS orders (
    ticket INTEGER PRIMARY KEY,
    symbol TEXT NOT NULL,
    type INTEGER NOT NULL,
    price_open REAL NOT NULL,
    sl REAL NOT NULL DEFAULT 0,
    tp REAL NOT NULL DEFAULT 0,
    time_setup TEXT NOT NULL,
    time_done TEXT,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_orders_time_setup ON orders(time_setup);
CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol);

CREATE TABLE IF NOT EXISTS analysis_runs (
    run_id TEXT PRIMARY KEY,
    algorithm TEXT NOT NULL,
    confidence REAL NOT NULL,
    pattern_count INTEGER NOT NULL,
    period_days INTEGER NOT NULL,
    total_trades INTEGER NOT NULL,
    win_rate REAL NOT NULL,
    profit_factor REAL NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS analysis_patterns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES analysis_runs(run_id),
    pattern_name TEXT NOT NULL,
    confidence REAL NOT NULL,
    description TEXT NOT NULL,
    evidence TEXT NOT NULL,
    metrics TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_patterns_run ON analysis_patterns(run_id);
`
