package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/payrecon/internal/database"
	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/record"
	"github.com/jask/payrecon/internal/source"
)

type fixture struct {
	ctx      context.Context
	db       *sql.DB
	store    *repository.Store
	importer *Importer
	maint    *Maintenance
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	headers, err := record.NewHeaderMap(nil)
	require.NoError(t, err)

	store := repository.NewStore(db)
	return fixture{
		ctx:      ctx,
		db:       db,
		store:    store,
		importer: &Importer{Store: store, Headers: headers},
		maint:    &Maintenance{Store: store},
	}
}

func decodeCSV(t *testing.T, lines ...string) *source.Table {
	t.Helper()
	tbl, err := source.DecodeCSV(strings.NewReader(strings.Join(lines, "\n")), "pagos.csv")
	require.NoError(t, err)
	return tbl
}

type counts struct {
	Clients, Platforms, Invoices, Transactions int
}

func countRows(t *testing.T, f fixture) counts {
	t.Helper()
	repos := f.store.Repos()
	var c counts
	var err error
	c.Clients, err = repos.Clients.Count(f.ctx)
	require.NoError(t, err)
	c.Platforms, err = repos.Platforms.Count(f.ctx)
	require.NoError(t, err)
	c.Invoices, err = repos.Invoices.Count(f.ctx)
	require.NoError(t, err)
	c.Transactions, err = repos.Transactions.Count(f.ctx)
	require.NoError(t, err)
	return c
}
