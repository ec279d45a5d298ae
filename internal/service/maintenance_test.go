package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/payrecon/internal/record"
)

func seedTwo(t *testing.T, f fixture) (first, second int64) {
	t.Helper()
	res, err := f.importer.Import(f.ctx, decodeCSV(t,
		"identificacion,nombre_del_cliente,plataforma_utilizada,numero_de_factura,monto_facturado,monto_de_la_transaccion",
		"123,Ana,Nequi,F1,1000,1000",
		"456,Luis,Daviplata,F2,2000,500",
	))
	require.NoError(t, err)
	require.Equal(t, 2, res.Written)
	return res.Rows[0].TransactionID, res.Rows[1].TransactionID
}

func TestMaintenance_ListTransactions(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, second := seedTwo(t, f)

	views, err := f.maint.ListTransactions(f.ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, first, views[0].ID)
	require.Equal(t, "123", views[0].Identification)
	require.Equal(t, "Nequi", *views[0].PlatformName)
	require.Equal(t, second, views[1].ID)
	require.Equal(t, "F2", *views[1].InvoiceNumber)
}

func TestMaintenance_EditAmountBilledTouchesOneInvoice(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, second := seedTwo(t, f)

	d, err := f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	in := EditInputFrom(*d)
	require.Equal(t, "1000", in.AmountBilled)
	in.AmountBilled = "1500.00"

	out, err := f.maint.Edit(f.ctx, first, in)
	require.NoError(t, err)
	require.Equal(t, EditResult{Clients: 1, Platforms: 1, Invoices: 1, Transactions: 1}, out)

	edited, err := f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	require.True(t, edited.Invoice.AmountBilled.Decimal.Equal(decimal.RequireFromString("1500")))
	require.Equal(t, "Ana", *edited.Client.Name)
	require.Equal(t, "F1", *edited.Invoice.Number)

	other, err := f.maint.LoadForEdit(f.ctx, second)
	require.NoError(t, err)
	require.True(t, other.Invoice.AmountBilled.Decimal.Equal(decimal.RequireFromString("2000")))
	require.Equal(t, counts{2, 2, 2, 2}, countRows(t, f))
}

func TestMaintenance_EditOverwritesEveryField(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, _ := seedTwo(t, f)

	out, err := f.maint.Edit(f.ctx, first, EditInput{
		Name:           "Ana Maria",
		Identification: "123-A",
		Email:          "ana@example.com",
		PlatformName:   "Nequi Empresas",
		InvoiceNumber:  "F1-R",
		BillingPeriod:  "2024-07-01",
		Code:           "TX-9",
		Datetime:       "2024-07-02 08:15:00",
		Amount:         "",
		Status:         "Completado",
		AmountPaid:     "250,5",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Transactions)

	d, err := f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	require.Equal(t, "123-A", d.Client.Identification)
	require.Equal(t, "ana@example.com", *d.Client.Email)
	require.Nil(t, d.Client.Phone)
	require.Equal(t, "Nequi Empresas", *d.Platform.Name)
	require.Equal(t, "F1-R", *d.Invoice.Number)
	require.Equal(t, "2024-07-01", *d.Invoice.BillingPeriod)
	require.True(t, d.Invoice.AmountBilled.Decimal.IsZero())
	require.Equal(t, "TX-9", *d.Transaction.Code)
	require.Equal(t, "2024-07-02 08:15:00", *d.Transaction.Datetime)
	require.True(t, d.Transaction.Amount.Valid)
	require.True(t, d.Transaction.Amount.Decimal.IsZero())
	require.Equal(t, string(record.StatusCompleted), d.Transaction.Status)
	require.True(t, d.Transaction.AmountPaid.Decimal.Equal(decimal.RequireFromString("250.5")))
}

func TestMaintenance_EditRejectsBlankIdentification(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, _ := seedTwo(t, f)

	_, err := f.maint.Edit(f.ctx, first, EditInput{Identification: "  "})
	require.ErrorIs(t, err, record.ErrMissingIdentification)

	d, err := f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	require.Equal(t, "123", d.Client.Identification)
}

func TestMaintenance_EditIdentificationConflictRollsBack(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, _ := seedTwo(t, f)

	d, err := f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	in := EditInputFrom(*d)
	in.PlatformName = "Renamed"
	in.Identification = "456"

	_, err = f.maint.Edit(f.ctx, first, in)
	require.Error(t, err)

	d, err = f.maint.LoadForEdit(f.ctx, first)
	require.NoError(t, err)
	require.Equal(t, "123", d.Client.Identification)
	require.Equal(t, "Nequi", *d.Platform.Name)
}

func TestMaintenance_UnknownTransaction(t *testing.T) {
	t.Parallel()
	f := setup(t)

	_, err := f.maint.LoadForEdit(f.ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.maint.Edit(f.ctx, 42, EditInput{Identification: "1"})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, f.maint.Delete(f.ctx, 42), ErrNotFound)
}

func TestMaintenance_DeleteKeepsParents(t *testing.T) {
	t.Parallel()
	f := setup(t)
	first, second := seedTwo(t, f)

	require.NoError(t, f.maint.Delete(f.ctx, first))
	require.ErrorIs(t, f.maint.Delete(f.ctx, first), ErrNotFound)

	views, err := f.maint.ListTransactions(f.ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, second, views[0].ID)
	require.Equal(t, counts{2, 2, 2, 1}, countRows(t, f))
}

func TestMaintenance_EditKeepsStoredStatus(t *testing.T) {
	t.Parallel()
	f := setup(t)

	res, err := f.importer.Import(f.ctx, decodeCSV(t,
		"identificacion,estado_de_la_transaccion",
		"1,Fallido",
	))
	require.NoError(t, err)
	id := res.Rows[0].TransactionID

	d, err := f.maint.LoadForEdit(f.ctx, id)
	require.NoError(t, err)
	in := EditInputFrom(*d)
	require.Equal(t, "Failed", in.Status)
	in.Name = "Pedro"

	_, err = f.maint.Edit(f.ctx, id, in)
	require.NoError(t, err)

	d, err = f.maint.LoadForEdit(f.ctx, id)
	require.NoError(t, err)
	require.Equal(t, string(record.StatusFailed), d.Transaction.Status)
}
