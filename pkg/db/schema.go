package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Latest snapshot per storage name
CREATE TABLE IF NOT EXISTS snapshots (
    name TEXT PRIMARY KEY,
    data TEXT NOT NULL,               -- JSON encoded snapshot
    updated_at TIMESTAMP NOT NULL
);

-- One row per save
CREATE TABLE IF NOT EXISTS snapshot_saves (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    transaction_count INTEGER NOT NULL,
    bill_count INTEGER NOT NULL,
    saved_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshot_saves_name
    ON snapshot_saves(name, id);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.db.Exec(Schema); err != nil {
		return err
	}
	return nil
}
