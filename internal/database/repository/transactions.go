package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = `id_transaction, code, transaction_datetime, amount, transaction_status,
 transaction_type, amount_paid, id_invoice, id_platform`

// Insert always adds a new row; code is not a natural key.
func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) (int64, error) {
	return insertID(ctx, r.db, `
	INSERT INTO transactions(
	 code, transaction_datetime, amount, transaction_status, transaction_type, amount_paid,
	 id_invoice, id_platform)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Code, t.Datetime, t.Amount, t.Status, t.Type, t.AmountPaid, t.InvoiceID, t.PlatformID)
}

// Update overwrites the transaction's own fields. Parent links are not editable.
func (r *TransactionRepo) Update(ctx context.Context, t Transaction) (int64, error) {
	return execAffected(ctx, r.db, `
	UPDATE transactions
	SET code = ?, transaction_datetime = ?, amount = ?, transaction_status = ?, transaction_type = ?, amount_paid = ?
	WHERE id_transaction = ?`,
		t.Code, t.Datetime, t.Amount, t.Status, t.Type, t.AmountPaid, t.ID)
}

func (r *TransactionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	return execAffected(ctx, r.db, `DELETE FROM transactions WHERE id_transaction = ?`, id)
}

func (r *TransactionRepo) Get(ctx context.Context, id int64) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id_transaction = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Links resolves the invoice, platform and client ids of a transaction.
func (r *TransactionRepo) Links(ctx context.Context, id int64) (*Links, error) {
	l := Links{TransactionID: id}
	err := r.db.QueryRowContext(ctx, `
	SELECT t.id_invoice, t.id_platform, i.id_client
	FROM transactions t
	JOIN invoices i ON t.id_invoice = i.id_invoice
	WHERE t.id_transaction = ?`, id).Scan(&l.InvoiceID, &l.PlatformID, &l.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// ListViews returns the joined table view ordered by transaction id.
func (r *TransactionRepo) ListViews(ctx context.Context) ([]TransactionView, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.id_transaction, c.name_user, c.identification, c.email, p.platform_name, i.invoice_number, t.amount
	FROM transactions t
	JOIN invoices i ON t.id_invoice = i.id_invoice
	JOIN clients c ON i.id_client = c.id_client
	JOIN platforms p ON t.id_platform = p.id_platform
	ORDER BY t.id_transaction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionView
	for rows.Next() {
		var v TransactionView
		var name, email, platform, invoice sql.NullString
		if err := rows.Scan(&v.ID, &name, &v.Identification, &email, &platform, &invoice, &v.Amount); err != nil {
			return nil, err
		}
		v.ClientName = nullString(name)
		v.Email = nullString(email)
		v.PlatformName = nullString(platform)
		v.InvoiceNumber = nullString(invoice)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Detail loads a transaction together with its invoice, client and platform.
func (r *TransactionRepo) Detail(ctx context.Context, id int64) (*TransactionDetail, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT t.id_transaction, t.code, t.transaction_datetime, t.amount, t.transaction_status,
	       t.transaction_type, t.amount_paid, t.id_invoice, t.id_platform,
	       c.id_client, c.name_user, c.identification, c.address_user, c.phone_number, c.email,
	       p.platform_name,
	       i.invoice_number, i.billing_period, i.amount_billed
	FROM transactions t
	JOIN invoices i ON t.id_invoice = i.id_invoice
	JOIN clients c ON i.id_client = c.id_client
	JOIN platforms p ON t.id_platform = p.id_platform
	WHERE t.id_transaction = ?`, id)

	var d TransactionDetail
	var code, datetime, typ sql.NullString
	var name, address, phone, email sql.NullString
	var platform, number, period sql.NullString
	err := row.Scan(&d.Transaction.ID, &code, &datetime, &d.Transaction.Amount, &d.Transaction.Status,
		&typ, &d.Transaction.AmountPaid, &d.Transaction.InvoiceID, &d.Transaction.PlatformID,
		&d.Client.ID, &name, &d.Client.Identification, &address, &phone, &email,
		&platform,
		&number, &period, &d.Invoice.AmountBilled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	d.Transaction.Code = nullString(code)
	d.Transaction.Datetime = nullString(datetime)
	d.Transaction.Type = nullString(typ)
	d.Client.Name = nullString(name)
	d.Client.Address = nullString(address)
	d.Client.Phone = nullString(phone)
	d.Client.Email = nullString(email)
	d.Platform = Platform{ID: d.Transaction.PlatformID, Name: nullString(platform)}
	d.Invoice.ID = d.Transaction.InvoiceID
	d.Invoice.ClientID = d.Client.ID
	d.Invoice.Number = nullString(number)
	d.Invoice.BillingPeriod = nullString(period)
	return &d, nil
}

func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "transactions")
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var code, datetime, typ sql.NullString
	if err := row.Scan(&t.ID, &code, &datetime, &t.Amount, &t.Status, &typ, &t.AmountPaid,
		&t.InvoiceID, &t.PlatformID); err != nil {
		return Transaction{}, err
	}
	t.Code = nullString(code)
	t.Datetime = nullString(datetime)
	t.Type = nullString(typ)
	return t, nil
}
