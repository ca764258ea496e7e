// Package postgres implements a membership store on PostgreSQL using pgx.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// DB is the subset of *pgxpool.Pool the store uses. pgxmock pools satisfy
// it as well.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store queries a PostgreSQL database.
type Store struct {
	db DB
}

// New wraps a pool. The store takes ownership and closes it in Close.
func New(db DB) *Store {
	return &Store{db: db}
}

// Open connects to the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping postgres")
	}

	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables and index if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range membership.SQLSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "migrate")
		}
	}
	return nil
}

// Subcategories implements [membership.Store].
func (s *Store) Subcategories(ctx context.Context, category string, order membership.Order) ([]membership.Entry, error) {
	query := membership.SubcategoriesSQL(order, membership.BindDollar)
	rows, err := s.db.Query(ctx, query, category, membership.NamespaceCategory)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query subcategories of %s", category)
	}
	defer rows.Close()

	var entries []membership.Entry
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan subcategory")
		}
		entries = append(entries, membership.Entry{Name: name, Count: int(count)})
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

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "begin load")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	insertPage := membership.InsertPageSQL(membership.BindDollar)
	for _, p := range ds.Pages {
		if _, err := tx.Exec(ctx, insertPage, p.ID, p.Namespace, p.Title); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert page %d", p.ID)
		}
	}

	insertLink := membership.InsertLinkSQL(membership.BindDollar)
	for _, l := range ds.Links {
		if _, err := tx.Exec(ctx, insertLink, l.From, l.To); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert link %d -> %s", l.From, l.To)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit load")
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

var (
	_ membership.Store  = (*Store)(nil)
	_ membership.Loader = (*Store)(nil)
	_ DB                = (*pgxpool.Pool)(nil)
)
