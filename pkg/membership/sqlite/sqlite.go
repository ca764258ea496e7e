// Package sqlite implements a membership store on an SQLite database using
// the pure-Go modernc.org/sqlite driver.
//
// The database holds MediaWiki-shaped page and categorylinks tables (see
// [membership.SQLSchema]); the aggregation is the classic four-way self-join
// grouped by subcategory title.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// Store queries an SQLite database.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The caller owns db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open sqlite %s", path)
	}
	// An in-memory database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping sqlite %s", path)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables and index if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range membership.SQLSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "migrate")
		}
	}
	return nil
}

// Subcategories implements [membership.Store].
func (s *Store) Subcategories(ctx context.Context, category string, order membership.Order) ([]membership.Entry, error) {
	query := membership.SubcategoriesSQL(order, membership.BindQuestion)
	rows, err := s.db.QueryContext(ctx, query, category, membership.NamespaceCategory)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query subcategories of %s", category)
	}
	defer rows.Close()

	var entries []membership.Entry
	for rows.Next() {
		var e membership.Entry
		if err := rows.Scan(&e.Name, &e.Count); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan subcategory")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate subcategories")
	}
	return entries, nil
}

// Load implements [membership.Loader] in a single transaction.
func (s *Store) Load(ctx context.Context, ds *membership.Dataset) (err error) {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "begin load")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insertPage := membership.InsertPageSQL(membership.BindQuestion)
	for _, p := range ds.Pages {
		if _, err := tx.ExecContext(ctx, insertPage, p.ID, p.Namespace, p.Title); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert page %d", p.ID)
		}
	}

	insertLink := membership.InsertLinkSQL(membership.BindQuestion)
	for _, l := range ds.Links {
		if _, err := tx.ExecContext(ctx, insertLink, l.From, l.To); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert link %d -> %s", l.From, l.To)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit load")
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

var (
	_ membership.Store  = (*Store)(nil)
	_ membership.Loader = (*Store)(nil)
)
