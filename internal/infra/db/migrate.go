package db

import "database/sql"

// MigrateUp creates the metadata index schema. Statements are idempotent so
// the migration can run at every startup.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS recreation_areas (
    provider    TEXT NOT NULL,
    rec_area_id TEXT NOT NULL,
    name        TEXT NOT NULL,
    location    TEXT,
    updated_at  TIMESTAMPTZ DEFAULT now(),
    PRIMARY KEY (provider, rec_area_id)
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS campgrounds (
    provider      TEXT NOT NULL,
    facility_id   TEXT NOT NULL,
    facility_name TEXT NOT NULL,
    rec_area_id   TEXT,
    rec_area_name TEXT,
    updated_at    TIMESTAMPTZ DEFAULT now(),
    PRIMARY KEY (provider, facility_id)
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_campgrounds_rec_area ON campgrounds(provider, rec_area_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campgrounds_name ON campgrounds(facility_name)`,
	}
	for _, stmt := range indexes {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
