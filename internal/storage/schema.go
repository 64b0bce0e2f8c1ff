package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// LatestStatusView is the name of the view resolving each complaint's
// current status: the status event with the maximum status_date, ties broken
// by the highest log_id. Complaints with no status events have no row here.
const LatestStatusView = "latest_status"

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		// Create schema_version table first
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}

		if err := createResidentsTable(tx); err != nil {
			return err
		}
		if err := createServiceCategoriesTable(tx); err != nil {
			return err
		}
		if err := createComplaintsTable(tx); err != nil {
			return err
		}
		if err := createStatusLogsTable(tx); err != nil {
			return err
		}
		if err := createLatestStatusView(tx); err != nil {
			return err
		}

		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", map[string]interface{}{
			"version": currentSchemaVersion,
		})

		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Database schema is up to date", map[string]interface{}{
			"version": version,
		})
		return nil
	}

	db.logger.Info("Running database migrations", map[string]interface{}{
		"from_version": version,
		"to_version":   currentSchemaVersion,
	})

	// Run migrations sequentially
	// Add migration functions here as schema evolves

	return nil
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	return err
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, version)
	return err
}

func (db *DB) getSchemaVersion() (int, error) {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func createResidentsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS residents (
			resident_id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			ward INTEGER NOT NULL,
			email TEXT,
			phone TEXT
		)
	`)
	return err
}

func createServiceCategoriesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS service_categories (
			category_id INTEGER PRIMARY KEY,
			category_name TEXT NOT NULL
		)
	`)
	return err
}

func createComplaintsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS complaints (
			complaint_id INTEGER PRIMARY KEY,
			resident_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			submission_date DATE NOT NULL,
			FOREIGN KEY (resident_id) REFERENCES residents (resident_id),
			FOREIGN KEY (category_id) REFERENCES service_categories (category_id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_complaints_resident ON complaints(resident_id)`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_complaints_category ON complaints(category_id)`)
	return err
}

func createStatusLogsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS status_logs (
			log_id INTEGER PRIMARY KEY,
			complaint_id INTEGER NOT NULL,
			status TEXT NOT NULL,
			status_date DATE NOT NULL,
			FOREIGN KEY (complaint_id) REFERENCES complaints (complaint_id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_status_logs_complaint ON status_logs(complaint_id, status_date DESC)`)
	return err
}

// createLatestStatusView defines the shared latest-status-per-complaint
// derivation. Every report composes against this view instead of re-deriving
// the window query, so the tie-break rule lives in exactly one place.
func createLatestStatusView(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE VIEW IF NOT EXISTS ` + LatestStatusView + ` AS
		SELECT complaint_id, status, status_date
		FROM (
			SELECT complaint_id, status, status_date,
			       ROW_NUMBER() OVER (
			           PARTITION BY complaint_id
			           ORDER BY status_date DESC, log_id DESC
			       ) AS rn
			FROM status_logs
		)
		WHERE rn = 1
	`)
	return err
}
