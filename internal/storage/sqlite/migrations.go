package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS partners (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS distributions (
    id TEXT PRIMARY KEY,
    total_amount REAL NOT NULL,
    total_hours REAL NOT NULL,
    hourly_rate REAL NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS distribution_payouts (
    distribution_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    hours REAL NOT NULL,
    payout REAL NOT NULL,
    rounded INTEGER NOT NULL,
    PRIMARY KEY (distribution_id, position),
    FOREIGN KEY (distribution_id) REFERENCES distributions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payout_bills (
    distribution_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    denomination INTEGER NOT NULL,
    quantity INTEGER NOT NULL,
    PRIMARY KEY (distribution_id, position, denomination),
    FOREIGN KEY (distribution_id, position) REFERENCES distribution_payouts(distribution_id, position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_partners_name ON partners(name);
CREATE INDEX IF NOT EXISTS idx_distributions_created_at ON distributions(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
