// Package record turns decoded spreadsheet rows into canonical records: it maps
// raw headers onto canonical fields, coerces cell text into typed values and
// decides whether a row may be reconciled.
package record

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingIdentification marks a row that has no client identification.
var ErrMissingIdentification = errors.New("missing identification")

// Raw holds a row's cell text keyed by canonical field. Blank cells are nil.
type Raw struct {
	Code                *string
	TransactionDatetime *string
	Amount              *string
	TransactionStatus   *string
	TransactionType     *string
	NameUser            *string
	Identification      *string
	AddressUser         *string
	PhoneNumber         *string
	Email               *string
	PlatformName        *string
	InvoiceNumber       *string
	BillingPeriod       *string
	AmountBilled        *string
	AmountPaid          *string
}

func (r *Raw) slot(f Field) **string {
	switch f {
	case FieldCode:
		return &r.Code
	case FieldTransactionDatetime:
		return &r.TransactionDatetime
	case FieldAmount:
		return &r.Amount
	case FieldTransactionStatus:
		return &r.TransactionStatus
	case FieldTransactionType:
		return &r.TransactionType
	case FieldNameUser:
		return &r.NameUser
	case FieldIdentification:
		return &r.Identification
	case FieldAddressUser:
		return &r.AddressUser
	case FieldPhoneNumber:
		return &r.PhoneNumber
	case FieldEmail:
		return &r.Email
	case FieldPlatformName:
		return &r.PlatformName
	case FieldInvoiceNumber:
		return &r.InvoiceNumber
	case FieldBillingPeriod:
		return &r.BillingPeriod
	case FieldAmountBilled:
		return &r.AmountBilled
	case FieldAmountPaid:
		return &r.AmountPaid
	}
	return nil
}

// Get returns the cell text stored for f.
func (r *Raw) Get(f Field) *string {
	if p := r.slot(f); p != nil {
		return *p
	}
	return nil
}

// Normalize maps the cells of one row onto canonical fields. headers and
// values are parallel; a missing trailing value counts as blank. When two
// headers map to the same field the later non-blank cell wins. The returned
// slice lists headers that matched no field, in column order.
func (m *HeaderMap) Normalize(headers, values []string) (Raw, []string) {
	var raw Raw
	var unknown []string
	for i, h := range headers {
		f, ok := m.Lookup(h)
		if !ok {
			if strings.TrimSpace(h) != "" {
				unknown = append(unknown, h)
			}
			continue
		}
		var v string
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		if v == "" {
			continue
		}
		*raw.slot(f) = &v
	}
	return raw, unknown
}

// Record is a row in the canonical vocabulary with typed values.
type Record struct {
	Code                *string
	TransactionDatetime *string // YYYY-MM-DD HH:MM:SS
	Amount              decimal.NullDecimal
	Status              Status
	TransactionType     *string
	AmountPaid          decimal.NullDecimal

	Name           *string
	Identification *string
	Address        *string
	Phone          *string
	Email          *string

	PlatformName *string

	InvoiceNumber *string
	BillingPeriod *string // YYYY-MM-DD
	AmountBilled  decimal.NullDecimal
}

// Format coerces raw cell text into a Record. Cells that fail coercion become
// null and are reported in malformed; they never fail the row.
func Format(raw Raw, loc *time.Location) (rec Record, malformed []Field) {
	rec = Record{
		Code:            raw.Code,
		TransactionType: raw.TransactionType,
		Name:            raw.NameUser,
		Identification:  raw.Identification,
		Address:         raw.AddressUser,
		Phone:           raw.PhoneNumber,
		Email:           raw.Email,
		PlatformName:    raw.PlatformName,
		InvoiceNumber:   raw.InvoiceNumber,
		Status:          MapStatus(deref(raw.TransactionStatus)),
	}

	if raw.TransactionDatetime != nil {
		if rec.TransactionDatetime = FormatDateTime(*raw.TransactionDatetime, loc); rec.TransactionDatetime == nil {
			malformed = append(malformed, FieldTransactionDatetime)
		}
	}
	if raw.BillingPeriod != nil {
		if rec.BillingPeriod = FormatDate(*raw.BillingPeriod, loc); rec.BillingPeriod == nil {
			malformed = append(malformed, FieldBillingPeriod)
		}
	}

	amounts := []struct {
		field Field
		src   *string
		dst   *decimal.NullDecimal
	}{
		{FieldAmount, raw.Amount, &rec.Amount},
		{FieldAmountBilled, raw.AmountBilled, &rec.AmountBilled},
		{FieldAmountPaid, raw.AmountPaid, &rec.AmountPaid},
	}
	for _, a := range amounts {
		if a.src == nil {
			continue
		}
		if *a.dst = ParseAmount(*a.src); !a.dst.Valid {
			malformed = append(malformed, a.field)
		}
	}
	return rec, malformed
}

// Validate reports whether the record may be reconciled: it must carry a
// non-blank identification.
func (r Record) Validate() error {
	if r.Identification == nil || strings.TrimSpace(*r.Identification) == "" {
		return ErrMissingIdentification
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
