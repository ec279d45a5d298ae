package repository

import (
	"context"
	"database/sql"
	"errors"
)

// InvoiceRepo handles invoices.
type InvoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) *InvoiceRepo { return &InvoiceRepo{db: db} }

// Ensure returns the id of the invoice with inv.Number, inserting inv when
// absent. The owning client of an existing invoice is left as it was created.
// A nil number always inserts a new row.
func (r *InvoiceRepo) Ensure(ctx context.Context, inv Invoice) (int64, bool, error) {
	if inv.Number == nil {
		id, err := insertID(ctx, r.db, `
		INSERT INTO invoices(invoice_number, billing_period, amount_billed, id_client)
		VALUES(NULL, ?, ?, ?)`, inv.BillingPeriod, inv.AmountBilled, inv.ClientID)
		return id, err == nil, err
	}
	return lookupOrInsert(ctx, r.db,
		`SELECT id_invoice FROM invoices WHERE invoice_number = ?`, *inv.Number,
		`INSERT INTO invoices(invoice_number, billing_period, amount_billed, id_client)
		 VALUES(?, ?, ?, ?)
		 ON CONFLICT(invoice_number) DO NOTHING`,
		*inv.Number, inv.BillingPeriod, inv.AmountBilled, inv.ClientID)
}

func (r *InvoiceRepo) Get(ctx context.Context, id int64) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id_invoice, invoice_number, billing_period, amount_billed, id_client
	FROM invoices WHERE id_invoice = ?`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) FindByNumber(ctx context.Context, number string) (*Invoice, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id_invoice, invoice_number, billing_period, amount_billed, id_client
	FROM invoices WHERE invoice_number = ?`, number)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// Update overwrites number, billing period and amount billed. The owning
// client is not editable.
func (r *InvoiceRepo) Update(ctx context.Context, inv Invoice) (int64, error) {
	return execAffected(ctx, r.db, `
	UPDATE invoices SET invoice_number = ?, billing_period = ?, amount_billed = ?
	WHERE id_invoice = ?`,
		inv.Number, inv.BillingPeriod, inv.AmountBilled, inv.ID)
}

func (r *InvoiceRepo) Count(ctx context.Context) (int, error) { return count(ctx, r.db, "invoices") }

func scanInvoice(row scanner) (Invoice, error) {
	var inv Invoice
	var number, period sql.NullString
	if err := row.Scan(&inv.ID, &number, &period, &inv.AmountBilled, &inv.ClientID); err != nil {
		return Invoice{}, err
	}
	inv.Number = nullString(number)
	inv.BillingPeriod = nullString(period)
	return inv, nil
}
