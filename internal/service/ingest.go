package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/payrecon/internal/database"
	"github.com/jask/payrecon/internal/database/repository"
	"github.com/jask/payrecon/internal/logger"
	"github.com/jask/payrecon/internal/record"
	"github.com/jask/payrecon/internal/source"
)

// Importer drives decoded rows through normalize, format, validate,
// reconcile and write. Each row runs in its own database transaction, so a
// failed row leaves no parent rows behind and never stops the batch.
type Importer struct {
	Store    *repository.Store
	Headers  *record.HeaderMap
	Location *time.Location
}

// ImportFile decodes and imports the file at path, then removes it whatever
// the outcome. name is the display name recorded for the run.
func (s *Importer) ImportFile(ctx context.Context, path, name string) (res Result, err error) {
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log := logger.FromContext(ctx)
			log.Warn().Err(rmErr).Str("path", path).Msg("remove import file")
		}
	}()

	tbl, err := source.Open(path, name)
	if err != nil {
		return Result{File: name}, err
	}
	return s.Import(ctx, tbl)
}

// Import processes every row of tbl. Row failures are reported in the result;
// the returned error is reserved for faults that make continuing pointless:
// cancellation or a lost database connection.
func (s *Importer) Import(ctx context.Context, tbl *source.Table) (Result, error) {
	log := logger.FromContext(ctx).With().Str("file", tbl.Name).Logger()
	res := Result{RunID: uuid.NewString(), File: tbl.Name}

	run := repository.ImportRun{ID: res.RunID, Filename: tbl.Name, Total: len(tbl.Rows), StartedAt: database.Now()}
	if err := s.Store.Repos().Imports.Start(ctx, run); err != nil {
		return res, fmt.Errorf("record import start: %w", err)
	}

	res.UnknownHeaders = s.unknownHeaders(tbl.Headers)
	for _, h := range res.UnknownHeaders {
		ev := log.Warn().Str("header", h)
		if hint, ok := s.Headers.Suggest(h); ok {
			ev = ev.Str("did_you_mean", hint)
		}
		ev.Msg("ignoring unrecognized column")
	}

	if len(tbl.Recoded) > 0 {
		log.Warn().Ints("lines", tbl.Recoded).Msg("lines were not UTF-8, read as Windows-1252")
	}

	var batchErr error
	for _, row := range tbl.Rows {
		if err := ctx.Err(); err != nil {
			batchErr = err
			break
		}
		rr, created := s.importRow(ctx, tbl.Headers, row)
		res.add(rr)
		if rr.Outcome == OutcomeFailed {
			if pingErr := s.Store.Ping(ctx); pingErr != nil {
				batchErr = fmt.Errorf("line %d: storage unavailable: %w", row.Line, errors.Join(rr.Err, pingErr))
				break
			}
		}
		res.ClientsCreated += boolInt(created.ClientCreated)
		res.PlatformsCreated += boolInt(created.PlatformCreated)
		res.InvoicesCreated += boolInt(created.InvoiceCreated)

		ev := log.Debug().Int("line", rr.Line).Str("outcome", string(rr.Outcome))
		if rr.Reason != "" {
			ev = ev.Str("reason", rr.Reason)
		}
		if len(rr.Malformed) > 0 {
			ev = ev.Interface("nulled", rr.Malformed)
		}
		ev.Msg("row")
	}

	run.Written, run.Skipped, run.Failed = res.Written, res.Skipped, res.Failed
	if err := s.Store.Repos().Imports.Finish(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Msg("record import finish")
	}

	if batchErr != nil {
		log.Error().Err(batchErr).Int("written", res.Written).Msg("import aborted")
		return res, batchErr
	}
	log.Info().
		Str("run_id", res.RunID).
		Int("rows", len(tbl.Rows)).
		Int("written", res.Written).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("import finished")
	return res, nil
}

func (s *Importer) importRow(ctx context.Context, headers []string, row source.Row) (RowResult, Resolved) {
	rr := RowResult{Line: row.Line}

	raw, _ := s.Headers.Normalize(headers, row.Values)
	rec, malformed := record.Format(raw, s.location())
	rr.Malformed = malformed

	if err := rec.Validate(); err != nil {
		rr.Outcome = OutcomeSkipped
		rr.Reason = err.Error()
		return rr, Resolved{}
	}

	var resolved Resolved
	err := s.Store.InTx(ctx, func(repos repository.Repos) error {
		var err error
		resolved, err = NewReconciler(repos).Resolve(ctx, row.Line, rec)
		if err != nil {
			return err
		}
		w := TransactionWriter{Transactions: repos.Transactions}
		rr.TransactionID, err = w.Write(ctx, rec, resolved.InvoiceID, resolved.PlatformID)
		if err != nil {
			return &RowError{Line: row.Line, Stage: StageTransaction, Err: err}
		}
		return nil
	})
	if err != nil {
		var rowErr *RowError
		if !errors.As(err, &rowErr) {
			err = &RowError{Line: row.Line, Stage: StageTransaction, Err: err}
		}
		rr.Outcome = OutcomeFailed
		rr.Err = err
		rr.Reason = err.Error()
		rr.TransactionID = 0
		return rr, Resolved{}
	}
	rr.Outcome = OutcomeWritten
	return rr, resolved
}

func (s *Importer) unknownHeaders(headers []string) []string {
	var out []string
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		if _, ok := s.Headers.Lookup(h); !ok {
			out = append(out, h)
		}
	}
	return out
}

func (s *Importer) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
