package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// SQLiteSource loads skill definitions from a sqlite database: one row per
// skill, the full definition document stored as JSON in the definition column.
type SQLiteSource struct {
	Path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS skills (
	name       TEXT PRIMARY KEY,
	definition TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InitSQLiteStore creates the skills table if the database is new.
func InitSQLiteStore(path string) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create skills table: %w", err)
	}
	return nil
}

// Read parses every stored definition. A malformed row yields a warning and
// is skipped; a missing database yields no definitions and no error.
func (s *SQLiteSource) Read(ctx context.Context) ([]*SkillSpec, []LoadWarning, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, nil, nil
	}

	db, err := openSQLite(s.Path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name, definition FROM skills ORDER BY name`)
	if err != nil {
		return nil, nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var specs []*SkillSpec
	var warnings []LoadWarning

	for rows.Next() {
		var name, definition string
		if err := rows.Scan(&name, &definition); err != nil {
			return nil, nil, fmt.Errorf("scan skill row: %w", err)
		}

		spec, err := ParseSpec([]byte(definition))
		if err == nil {
			err = spec.Validate()
		}
		if err != nil {
			warnings = append(warnings, LoadWarning{Source: "sqlite:" + name, Reason: err.Error()})
			continue
		}
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate skill rows: %w", err)
	}

	return specs, warnings, nil
}

func openSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open skill database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// MultiSource reads from several sources in order, concatenating their
// definitions and warnings. Later sources win on duplicate names because the
// catalog keeps the last definition seen.
type MultiSource []Source

func (m MultiSource) Read(ctx context.Context) ([]*SkillSpec, []LoadWarning, error) {
	var specs []*SkillSpec
	var warnings []LoadWarning
	for _, src := range m {
		s, w, err := src.Read(ctx)
		if err != nil {
			return nil, nil, err
		}
		specs = append(specs, s...)
		warnings = append(warnings, w...)
	}
	return specs, warnings, nil
}
