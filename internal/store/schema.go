package store

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	folder_path TEXT NOT NULL UNIQUE,
	folder_name TEXT NOT NULL,
	title TEXT NOT NULL,

	catalog_id INTEGER,
	alt_catalog_id INTEGER,
	match_confidence REAL,
	match_status TEXT NOT NULL DEFAULT 'pending',

	summary TEXT,
	release_date TEXT,
	genres TEXT,
	developers TEXT,
	publishers TEXT,
	review_score INTEGER,
	review_count INTEGER,
	review_summary TEXT,

	cover_url TEXT,
	background_url TEXT,
	local_cover_path TEXT,
	local_background_path TEXT,

	size_bytes INTEGER,

	manually_edited INTEGER NOT NULL DEFAULT 0,
	match_locked INTEGER NOT NULL DEFAULT 0,

	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_entries_match_status ON entries(match_status);
CREATE INDEX IF NOT EXISTS idx_entries_title ON entries(title);
CREATE INDEX IF NOT EXISTS idx_entries_catalog_id ON entries(catalog_id);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON entries(updated_at);
`
