package service

import (
	"context"

	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/record"
)

// TransactionWriter inserts transaction rows. It never checks for an existing
// row: importing the same file twice writes every transaction twice.
type TransactionWriter struct {
	Transactions *repository.TransactionRepo
}

func (w *TransactionWriter) Write(ctx context.Context, rec record.Record, invoiceID, platformID int64) (int64, error) {
	return w.Transactions.Insert(ctx, repository.Transaction{
		Code:       rec.Code,
		Datetime:   rec.TransactionDatetime,
		Amount:     rec.Amount,
		Status:     string(rec.Status),
		Type:       rec.TransactionType,
		AmountPaid: rec.AmountPaid,
		InvoiceID:  invoiceID,
		PlatformID: platformID,
	})
}
