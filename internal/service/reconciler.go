package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/record"
)

// Resolved holds the parent ids a transaction row links to and whether each
// parent was created by this row.
type Resolved struct {
	ClientID   int64
	PlatformID int64
	InvoiceID  int64

	ClientCreated   bool
	PlatformCreated bool
	InvoiceCreated  bool
}

// Reconciler performs lookup-or-create against clients, platforms and
// invoices. Existing rows are reused untouched; only first sightings insert.
type Reconciler struct {
	Clients   *repository.ClientRepo
	Platforms *repository.PlatformRepo
	Invoices  *repository.InvoiceRepo
}

func NewReconciler(repos repository.Repos) *Reconciler {
	return &Reconciler{Clients: repos.Clients, Platforms: repos.Platforms, Invoices: repos.Invoices}
}

// Resolve reconciles the three parents of rec. The client goes first because
// the invoice needs its id at creation time. Errors are *RowError with the
// failing stage; line is only used for error text.
func (r *Reconciler) Resolve(ctx context.Context, line int, rec record.Record) (Resolved, error) {
	var out Resolved
	steps := []struct {
		stage   Stage
		id      *int64
		created *bool
	}{
		{StageClient, &out.ClientID, &out.ClientCreated},
		{StagePlatform, &out.PlatformID, &out.PlatformCreated},
		{StageInvoice, &out.InvoiceID, &out.InvoiceCreated},
	}
	for _, step := range steps {
		id, created, err := r.ResolveOrCreate(ctx, step.stage, rec, out.ClientID)
		if err != nil {
			return out, &RowError{Line: line, Stage: step.stage, Err: err}
		}
		*step.id, *step.created = id, created
	}
	return out, nil
}

// ResolveOrCreate returns the id of the entity of the given kind keyed by
// rec, creating it from rec when absent. clientID is only read for invoices.
func (r *Reconciler) ResolveOrCreate(ctx context.Context, kind Stage, rec record.Record, clientID int64) (int64, bool, error) {
	switch kind {
	case StageClient:
		return r.ResolveClient(ctx, rec)
	case StagePlatform:
		return r.ResolvePlatform(ctx, rec)
	case StageInvoice:
		if clientID == 0 {
			return 0, false, errors.New("invoice requires a resolved client")
		}
		return r.ResolveInvoice(ctx, rec, clientID)
	default:
		return 0, false, fmt.Errorf("no lookup-or-create for %q", kind)
	}
}

// ResolveClient returns the client keyed by rec.Identification.
func (r *Reconciler) ResolveClient(ctx context.Context, rec record.Record) (int64, bool, error) {
	if err := rec.Validate(); err != nil {
		return 0, false, err
	}
	return r.Clients.Ensure(ctx, repository.Client{
		Name:           rec.Name,
		Identification: *rec.Identification,
		Address:        rec.Address,
		Phone:          rec.Phone,
		Email:          rec.Email,
	})
}

// ResolvePlatform returns the platform keyed by rec.PlatformName.
func (r *Reconciler) ResolvePlatform(ctx context.Context, rec record.Record) (int64, bool, error) {
	return r.Platforms.Ensure(ctx, rec.PlatformName)
}

// ResolveInvoice returns the invoice keyed by rec.InvoiceNumber, owned by
// clientID when it has to be created.
func (r *Reconciler) ResolveInvoice(ctx context.Context, rec record.Record, clientID int64) (int64, bool, error) {
	return r.Invoices.Ensure(ctx, repository.Invoice{
		Number:        rec.InvoiceNumber,
		BillingPeriod: rec.BillingPeriod,
		AmountBilled:  rec.AmountBilled,
		ClientID:      clientID,
	})
}
