package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jask/payrecon/internal/database"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repo can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles the table repos bound to one DBTX.
type Repos struct {
	Clients      *ClientRepo
	Platforms    *PlatformRepo
	Invoices     *InvoiceRepo
	Transactions *TransactionRepo
	Imports      *ImportRepo
}

func NewRepos(db DBTX) Repos {
	return Repos{
		Clients:      NewClientRepo(db),
		Platforms:    NewPlatformRepo(db),
		Invoices:     NewInvoiceRepo(db),
		Transactions: NewTransactionRepo(db),
		Imports:      NewImportRepo(db),
	}
}

// Store is the injectable storage handle built from an open *sql.DB.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Repos returns repos that run each statement on its own.
func (s *Store) Repos() Repos { return NewRepos(s.db) }

// InTx runs fn with repos bound to a single transaction. Nothing fn wrote is
// kept when it returns an error.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(NewRepos(tx))
	})
}

// Ping reports whether the underlying connection is usable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// lookupOrInsert selects an id by natural key and inserts when none exists.
// insertSQL must carry an ON CONFLICT DO NOTHING clause on the natural key:
// when a concurrent writer wins the race the insert affects no rows and the
// winner's id is selected instead.
func lookupOrInsert(ctx context.Context, db DBTX, selectSQL string, key any, insertSQL string, args ...any) (int64, bool, error) {
	id, err := selectID(ctx, db, selectSQL, key)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("lookup: %w", err)
	}

	res, err := db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return 0, false, fmt.Errorf("insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		id, err := selectID(ctx, db, selectSQL, key)
		if err != nil {
			return 0, false, fmt.Errorf("reselect after conflict: %w", err)
		}
		return id, false, nil
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, true, nil
}

func selectID(ctx context.Context, db DBTX, query string, key any) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, query, key).Scan(&id)
	return id, err
}

func insertID(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func execAffected(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func count(ctx context.Context, db DBTX, table string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
