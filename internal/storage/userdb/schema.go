package userdb

// Schema creates the user and catalog tables. Statements are idempotent so
// the store can run it on every open.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS catalog (
	symbol   TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	exchange TEXT NOT NULL DEFAULT '',
	sector   TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_catalog_name ON catalog(name);
`
