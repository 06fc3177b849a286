// Package sqlite provides a SQLite-backed card name catalog.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peterkuimelis/interdict/internal/catalog"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS cards (
	name       TEXT PRIMARY KEY,
	types      TEXT NOT NULL DEFAULT '',
	supertypes TEXT NOT NULL DEFAULT ''
)`

// Store is a catalog.Catalog backed by a SQLite database. Every Names call
// queries the database, so imports are visible immediately.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Import upserts the given cards in a single transaction.
func (s *Store) Import(ctx context.Context, cards []catalog.CardInfo) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (name, types, supertypes) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET types = excluded.types, supertypes = excluded.supertypes`)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("card name is required")
		}
		if _, err := stmt.ExecContext(ctx, name, strings.Join(c.Types, " "), strings.Join(c.Supertypes, " ")); err != nil {
			return fmt.Errorf("import %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// Cards returns every card ordered by name.
func (s *Store) Cards(ctx context.Context) ([]catalog.CardInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, types, supertypes FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []catalog.CardInfo
	for rows.Next() {
		var name, types, supertypes string
		if err := rows.Scan(&name, &types, &supertypes); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, catalog.CardInfo{
			Name:       name,
			Types:      strings.Fields(types),
			Supertypes: strings.Fields(supertypes),
		})
	}
	return cards, rows.Err()
}

// Names implements catalog.Catalog.
func (s *Store) Names(ctx context.Context, class catalog.NameClass) ([]string, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(cards, class), nil
}
