package record

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical field identifier.
type Field string

const (
	FieldCode                Field = "code"
	FieldTransactionDatetime Field = "transaction_datetime"
	FieldAmount              Field = "amount"
	FieldTransactionStatus   Field = "transaction_status"
	FieldTransactionType     Field = "transaction_type"
	FieldNameUser            Field = "name_user"
	FieldIdentification      Field = "identification"
	FieldAddressUser         Field = "address_user"
	FieldPhoneNumber         Field = "phone_number"
	FieldEmail               Field = "email"
	FieldPlatformName        Field = "platform_name"
	FieldInvoiceNumber       Field = "invoice_number"
	FieldBillingPeriod       Field = "billing_period"
	FieldAmountBilled        Field = "amount_billed"
	FieldAmountPaid          Field = "amount_paid"
)

// Fields lists every canonical field in export order.
var Fields = []Field{
	FieldCode, FieldTransactionDatetime, FieldAmount, FieldTransactionStatus, FieldTransactionType,
	FieldNameUser, FieldIdentification, FieldAddressUser, FieldPhoneNumber, FieldEmail,
	FieldPlatformName, FieldInvoiceNumber, FieldBillingPeriod, FieldAmountBilled, FieldAmountPaid,
}

// ParseField returns the Field named s.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// sourceHeaders maps normalized spreadsheet headers to fields.
var sourceHeaders = map[string]Field{
	"id_de_la_transaccion":           FieldCode,
	"fecha_y_hora_de_la_transaccion": FieldTransactionDatetime,
	"monto_de_la_transaccion":        FieldAmount,
	"estado_de_la_transaccion":       FieldTransactionStatus,
	"tipo_de_transaccion":            FieldTransactionType,
	"nombre_del_cliente":             FieldNameUser,
	"numero_de_identificacion":       FieldIdentification,
	"identificacion":                 FieldIdentification,
	"direccion":                      FieldAddressUser,
	"telefono":                       FieldPhoneNumber,
	"correo_electronico":             FieldEmail,
	"plataforma_utilizada":           FieldPlatformName,
	"numero_de_factura":              FieldInvoiceNumber,
	"periodo_de_facturacion":         FieldBillingPeriod,
	"monto_facturado":                FieldAmountBilled,
	"monto_pagado":                   FieldAmountPaid,
}

// NormalizeHeader trims, lowercases, strips diacritics and joins whitespace
// runs with a single underscore: "  Número de   Factura " -> "numero_de_factura".
// Any Unicode space counts, so no-break spaces from spreadsheet exports match.
func NormalizeHeader(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), "_")
}

// HeaderMap resolves raw headers to fields.
type HeaderMap struct {
	table map[string]Field
	known []string
}

// NewHeaderMap builds the fixed header table plus extra aliases keyed by raw
// header and valued by field name. Aliases override the fixed table.
func NewHeaderMap(aliases map[string]string) (*HeaderMap, error) {
	table := make(map[string]Field, len(sourceHeaders)+len(aliases))
	for k, f := range sourceHeaders {
		table[k] = f
	}
	for raw, name := range aliases {
		f, ok := ParseField(name)
		if !ok {
			return nil, fmt.Errorf("header alias %q: unknown field %q", raw, name)
		}
		key := NormalizeHeader(raw)
		if key == "" {
			return nil, fmt.Errorf("header alias for %q is blank", name)
		}
		table[key] = f
	}
	known := make([]string, 0, len(table))
	for k := range table {
		known = append(known, k)
	}
	sort.Strings(known)
	return &HeaderMap{table: table, known: known}, nil
}

// Lookup returns the field for a raw header, or false when it is unrecognized.
func (m *HeaderMap) Lookup(raw string) (Field, bool) {
	f, ok := m.table[NormalizeHeader(raw)]
	return f, ok
}

// Suggest returns the closest known header to an unrecognized one. It is only
// advice for log output; unrecognized headers are never mapped.
func (m *HeaderMap) Suggest(raw string) (string, bool) {
	key := NormalizeHeader(raw)
	if key == "" {
		return "", false
	}
	limit := len(key) / 4
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, k := range m.known {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, best != ""
}
