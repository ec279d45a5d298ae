package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/payrecon/internal/record"
)

func ptr(s string) *string { return &s }

func TestReconciler_ResolveIsIdempotent(t *testing.T) {
	t.Parallel()
	f := setup(t)

	rec := record.Record{
		Identification: ptr("77"),
		Name:           ptr("Marta"),
		PlatformName:   ptr("PSE"),
		InvoiceNumber:  ptr("INV-1"),
	}
	r := NewReconciler(f.store.Repos())

	first, err := r.Resolve(f.ctx, 2, rec)
	require.NoError(t, err)
	require.True(t, first.ClientCreated)
	require.True(t, first.PlatformCreated)
	require.True(t, first.InvoiceCreated)

	second, err := r.Resolve(f.ctx, 3, rec)
	require.NoError(t, err)
	require.False(t, second.ClientCreated)
	require.False(t, second.PlatformCreated)
	require.False(t, second.InvoiceCreated)
	require.Equal(t, first.ClientID, second.ClientID)
	require.Equal(t, first.PlatformID, second.PlatformID)
	require.Equal(t, first.InvoiceID, second.InvoiceID)
}

func TestReconciler_ExistingInvoiceKeepsOwner(t *testing.T) {
	t.Parallel()
	f := setup(t)
	r := NewReconciler(f.store.Repos())

	a, err := r.Resolve(f.ctx, 2, record.Record{Identification: ptr("1"), InvoiceNumber: ptr("SHARED")})
	require.NoError(t, err)
	b, err := r.Resolve(f.ctx, 3, record.Record{Identification: ptr("2"), InvoiceNumber: ptr("SHARED")})
	require.NoError(t, err)

	require.NotEqual(t, a.ClientID, b.ClientID)
	require.Equal(t, a.InvoiceID, b.InvoiceID)
	inv, err := f.store.Repos().Invoices.Get(f.ctx, b.InvoiceID)
	require.NoError(t, err)
	require.Equal(t, a.ClientID, inv.ClientID)
}

func TestReconciler_MissingIdentificationFailsClientStage(t *testing.T) {
	t.Parallel()
	f := setup(t)
	r := NewReconciler(f.store.Repos())

	_, err := r.Resolve(f.ctx, 5, record.Record{PlatformName: ptr("Nequi")})
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, StageClient, rowErr.Stage)
	require.Equal(t, 5, rowErr.Line)
	require.ErrorIs(t, err, record.ErrMissingIdentification)
	require.Equal(t, counts{}, countRows(t, f))
}

func TestReconciler_InvoiceNeedsClient(t *testing.T) {
	t.Parallel()
	f := setup(t)
	r := NewReconciler(f.store.Repos())

	_, _, err := r.ResolveOrCreate(f.ctx, StageInvoice, record.Record{InvoiceNumber: ptr("X")}, 0)
	require.Error(t, err)
}
