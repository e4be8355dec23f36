package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per completed analysis. topics and topic_tree hold JSON.
CREATE TABLE IF NOT EXISTS analyses (
    analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
    request_id TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL,
    content_type TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    content_length INTEGER NOT NULL,
    language TEXT,
    summary TEXT NOT NULL,
    summary_source TEXT NOT NULL,   -- model, fallback
    topics TEXT NOT NULL,
    topic_tree TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(content_hash);
`
