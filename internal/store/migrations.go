package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create key/value table",
		SQL: `
			CREATE TABLE kv (
				key         TEXT PRIMARY KEY,
				value       TEXT NOT NULL,
				updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`,
	},
	{
		Version: 2,
		Name:    "create detections log",
		SQL: `
			CREATE TABLE detections (
				id              TEXT PRIMARY KEY,
				text_len        INTEGER NOT NULL,
				is_hate         INTEGER NOT NULL,
				label           TEXT NOT NULL,
				toxicity_score  REAL NOT NULL,
				toxic_words     TEXT,
				created_at      TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_detections_created ON detections (created_at);
			CREATE INDEX idx_detections_label ON detections (label);
		`,
	},
}
