package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/logger"
	"github.com/jask/payrecon/internal/record"
)

// Maintenance houses the list, edit and delete operations on stored
// transactions. Unlike import it never creates parent rows: edits overwrite
// the client, platform and invoice already linked to the transaction.
type Maintenance struct {
	Store    *repository.Store
	Location *time.Location
}

// EditInput carries every editable field as form text.
type EditInput struct {
	Name           string
	Identification string
	Address        string
	Phone          string
	Email          string

	PlatformName string

	InvoiceNumber string
	BillingPeriod string
	AmountBilled  string

	Code       string
	Datetime   string
	Amount     string
	Status     string
	Type       string
	AmountPaid string
}

// EditInputFrom prefills an EditInput with the stored values of d.
func EditInputFrom(d repository.TransactionDetail) EditInput {
	return EditInput{
		Name:           str(d.Client.Name),
		Identification: d.Client.Identification,
		Address:        str(d.Client.Address),
		Phone:          str(d.Client.Phone),
		Email:          str(d.Client.Email),
		PlatformName:   str(d.Platform.Name),
		InvoiceNumber:  str(d.Invoice.Number),
		BillingPeriod:  str(d.Invoice.BillingPeriod),
		AmountBilled:   decimalText(d.Invoice.AmountBilled),
		Code:           str(d.Transaction.Code),
		Datetime:       str(d.Transaction.Datetime),
		Amount:         decimalText(d.Transaction.Amount),
		Status:         d.Transaction.Status,
		Type:           str(d.Transaction.Type),
		AmountPaid:     decimalText(d.Transaction.AmountPaid),
	}
}

// EditResult holds the rows affected per table.
type EditResult struct {
	Clients      int64
	Platforms    int64
	Invoices     int64
	Transactions int64
}

func (s *Maintenance) ListTransactions(ctx context.Context) ([]repository.TransactionView, error) {
	return s.Store.Repos().Transactions.ListViews(ctx)
}

func (s *Maintenance) LoadForEdit(ctx context.Context, id int64) (*repository.TransactionDetail, error) {
	d, err := s.Store.Repos().Transactions.Detail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// Edit overwrites all four rows linked to transaction id with in. Blank
// billing period and datetime become NULL; blank amounts become 0.
func (s *Maintenance) Edit(ctx context.Context, id int64, in EditInput) (EditResult, error) {
	if strings.TrimSpace(in.Identification) == "" {
		return EditResult{}, fmt.Errorf("edit transaction %d: %w", id, record.ErrMissingIdentification)
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	var out EditResult
	err := s.Store.InTx(ctx, func(repos repository.Repos) error {
		links, err := repos.Transactions.Links(ctx, id)
		if err != nil {
			return fmt.Errorf("resolve links: %w", err)
		}
		if links == nil {
			return ErrNotFound
		}

		if out.Clients, err = repos.Clients.Update(ctx, repository.Client{
			ID:             links.ClientID,
			Name:           optional(in.Name),
			Identification: strings.TrimSpace(in.Identification),
			Address:        optional(in.Address),
			Phone:          optional(in.Phone),
			Email:          optional(in.Email),
		}); err != nil {
			return fmt.Errorf("update client: %w", err)
		}
		if out.Platforms, err = repos.Platforms.Update(ctx, repository.Platform{
			ID:   links.PlatformID,
			Name: optional(in.PlatformName),
		}); err != nil {
			return fmt.Errorf("update platform: %w", err)
		}
		if out.Invoices, err = repos.Invoices.Update(ctx, repository.Invoice{
			ID:            links.InvoiceID,
			Number:        optional(in.InvoiceNumber),
			BillingPeriod: record.FormatDate(in.BillingPeriod, loc),
			AmountBilled:  amountOrZero(in.AmountBilled),
		}); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if out.Transactions, err = repos.Transactions.Update(ctx, repository.Transaction{
			ID:         id,
			Code:       optional(in.Code),
			Datetime:   record.FormatDateTime(in.Datetime, loc),
			Amount:     amountOrZero(in.Amount),
			Status:     string(record.ParseStatus(in.Status)),
			Type:       optional(in.Type),
			AmountPaid: amountOrZero(in.AmountPaid),
		}); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return EditResult{}, err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int64("transaction_id", id).
		Int64("clients", out.Clients).
		Int64("platforms", out.Platforms).
		Int64("invoices", out.Invoices).
		Int64("transactions", out.Transactions).
		Msg("transaction edited")
	return out, nil
}

// Delete removes one transaction. Its parents are kept.
func (s *Maintenance) Delete(ctx context.Context, id int64) error {
	n, err := s.Store.Repos().Transactions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	log := logger.FromContext(ctx)
	log.Info().Int64("transaction_id", id).Msg("transaction deleted")
	return nil
}

func (s *Maintenance) ListImports(ctx context.Context, limit int) ([]repository.ImportRun, error) {
	return s.Store.Repos().Imports.List(ctx, limit)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func amountOrZero(s string) decimal.NullDecimal {
	if d := record.ParseAmount(s); d.Valid {
		return d
	}
	return decimal.NewNullDecimal(decimal.Zero)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decimalText(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
