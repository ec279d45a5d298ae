package service

import (
	"errors"
	"fmt"

	"github.com/jask/payrecon/internal/record"
)

// ErrNotFound is returned by maintenance operations for an unknown transaction id.
var ErrNotFound = errors.New("transaction not found")

// Stage names the pipeline step a row failed in.
type Stage string

const (
	StageClient      Stage = "client"
	StagePlatform    Stage = "platform"
	StageInvoice     Stage = "invoice"
	StageTransaction Stage = "transaction"
)

// RowError is a failure confined to one input row. Client, platform and
// invoice stages are reconciliation failures; the transaction stage is a
// write failure.
type RowError struct {
	Line  int
	Stage Stage
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d %s: %v", e.Line, e.Stage, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Outcome is the terminal state of one row.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RowResult reports what happened to one row.
type RowResult struct {
	Line          int
	Outcome       Outcome
	TransactionID int64
	Reason        string         // skip reason or failure text
	Err           error          // set when Outcome is OutcomeFailed
	Malformed     []record.Field // cells nulled by coercion
}

// Result summarises one import run.
type Result struct {
	RunID          string
	File           string
	Rows           []RowResult
	Written        int
	Skipped        int
	Failed         int
	UnknownHeaders []string

	ClientsCreated   int
	PlatformsCreated int
	InvoicesCreated  int
}

// Errors returns the row errors in input order.
func (r Result) Errors() []error {
	var out []error
	for _, row := range r.Rows {
		if row.Err != nil {
			out = append(out, row.Err)
		}
	}
	return out
}

func (r *Result) add(row RowResult) {
	r.Rows = append(r.Rows, row)
	switch row.Outcome {
	case OutcomeWritten:
		r.Written++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}
