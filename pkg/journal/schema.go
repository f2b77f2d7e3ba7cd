package journal

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Schema creates the journal tables. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
    id         TEXT PRIMARY KEY,
    time       INTEGER NOT NULL,
    process    TEXT NOT NULL,
    kind       TEXT NOT NULL,
    domain     TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_time ON events(time DESC);
CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);

CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`

const insertSchemaVersion = `
INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, unixepoch());
`

const getSchemaVersion = `
SELECT MAX(version) FROM schema_version;
`

const insertEvent = `
INSERT INTO events (id, time, process, kind, domain, detail) VALUES (?, ?, ?, ?, ?, ?);
`

const selectRecent = `
SELECT id, time, process, kind, domain, detail FROM events ORDER BY time DESC, id LIMIT ?;
`
