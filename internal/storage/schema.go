package storage

const schema = `
-- Single-row table holding the long-term study record.
CREATE TABLE IF NOT EXISTS progress (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    last_studied TEXT NOT NULL DEFAULT '',
    total_cards INTEGER NOT NULL DEFAULT 0,
    mastered_cards INTEGER NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0
);

-- Free-form settings such as the UI theme.
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- One row per answered card, feeding the stats dashboard.
CREATE TABLE IF NOT EXISTS review_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_id TEXT NOT NULL,
    correct INTEGER NOT NULL,
    reviewed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_log_deck ON review_log(deck_id);
`
