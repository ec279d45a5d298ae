package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a clients row. Identification is the natural key.
type Client struct {
	ID             int64
	Name           *string
	Identification string
	Address        *string
	Phone          *string
	Email          *string
}

// Platform represents a platforms row. Name is the natural key; a nil Name
// never matches an existing row.
type Platform struct {
	ID   int64
	Name *string
}

// Invoice represents an invoices row owned by exactly one client.
type Invoice struct {
	ID            int64
	Number        *string
	BillingPeriod *string // YYYY-MM-DD
	AmountBilled  decimal.NullDecimal
	ClientID      int64
}

// Transaction represents a transactions row.
type Transaction struct {
	ID         int64
	Code       *string
	Datetime   *string // YYYY-MM-DD HH:MM:SS
	Amount     decimal.NullDecimal
	Status     string
	Type       *string
	AmountPaid decimal.NullDecimal
	InvoiceID  int64
	PlatformID int64
}

// Links are the parent ids reachable from one transaction through the
// foreign-key chain transaction -> invoice -> client.
type Links struct {
	TransactionID int64
	InvoiceID     int64
	PlatformID    int64
	ClientID      int64
}

// TransactionView is one line of the joined table view.
type TransactionView struct {
	ID             int64
	ClientName     *string
	Identification string
	Email          *string
	PlatformName   *string
	InvoiceNumber  *string
	Amount         decimal.NullDecimal
}

// TransactionDetail is every editable field of a transaction and its parents.
type TransactionDetail struct {
	Transaction Transaction
	Client      Client
	Platform    Platform
	Invoice     Invoice
}

// ImportRun is one row of the imports audit table.
type ImportRun struct {
	ID         string
	Filename   string
	Total      int
	Written    int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
}
