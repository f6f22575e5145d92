package records

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS records (
	target      TEXT NOT NULL,
	date        TEXT NOT NULL,
	month       TEXT NOT NULL,
	year        TEXT NOT NULL,
	town        TEXT NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL,
	party       TEXT NOT NULL,
	institution TEXT NOT NULL
)`

// WriteSQLite replaces the records table of the database at path
func WriteSQLite(ctx context.Context, path string, recs []Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(target, date, month, year, town, lat, lon, party, institution)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, r.Target, r.Date, r.Month, r.Year, r.Town, r.Lat, r.Lon, r.Party, r.Institution); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// ReadSQLite loads records in insertion order
func ReadSQLite(ctx context.Context, path string) ([]Record, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT target, date, month, year, town, lat, lon, party, institution
		FROM records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Target, &r.Date, &r.Month, &r.Year, &r.Town, &r.Lat, &r.Lon, &r.Party, &r.Institution); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	return recs, nil
}
