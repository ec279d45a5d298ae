package record

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// inputLayouts are tried in order. Slashed dates are month first, matching
// what spreadsheet exports in the source locale produce for US-style cells.
var inputLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseTime reads a free-form date or date-time. Values without an offset are
// taken in loc; values with one are converted to loc.
func parseTime(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as YYYY-MM-DD, or nil when raw is blank or unparseable.
func FormatDate(raw string, loc *time.Location) *string {
	t, ok := parseTime(raw, loc)
	if !ok {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// FormatDateTime renders raw as YYYY-MM-DD HH:MM:SS, or nil when raw is blank
// or unparseable.
func FormatDateTime(raw string, loc *time.Location) *string {
	t, ok := parseTime(raw, loc)
	if !ok {
		return nil
	}
	s := t.Format(DateTimeLayout)
	return &s
}

// Status is a transaction's settlement state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// MapStatus maps a raw status cell onto Status. Only the source-locale words
// are recognized; anything else, including a blank cell, is Pending.
func MapStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completado":
		return StatusCompleted
	case "fallido":
		return StatusFailed
	default:
		return StatusPending
	}
}

// ParseStatus maps an edited status value. The stored names (Pending,
// Completed, Failed) are kept as they are; other text goes through MapStatus.
func ParseStatus(raw string) Status {
	for _, st := range []Status{StatusPending, StatusCompleted, StatusFailed} {
		if strings.EqualFold(strings.TrimSpace(raw), string(st)) {
			return st
		}
	}
	return MapStatus(raw)
}

// ParseAmount reads a money cell. Currency symbols, spaces and a three-letter
// currency code before or after the number are dropped; when both '.' and ','
// appear the later one is the decimal mark, and a lone ',' followed by one or
// two digits is a decimal comma. Blank input, or any other letter or symbol,
// yields an invalid NullDecimal.
func ParseAmount(raw string) decimal.NullDecimal {
	var b strings.Builder
	for _, r := range trimCurrencyCode(strings.TrimSpace(raw)) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+', r == '(', r == ')':
			b.WriteRune(r)
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		default:
			return decimal.NullDecimal{}
		}
	}
	s := b.String()

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	s = strings.Trim(s, "()")
	if s == "" {
		return decimal.NullDecimal{}
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1 && len(s)-comma-1 <= 2:
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NewNullDecimal(d)
}

// trimCurrencyCode drops an ISO 4217 style code ("COP 1.500", "1500 USD").
func trimCurrencyCode(s string) string {
	isCode := func(code string) bool {
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }); i == 3 && isCode(s[:3]) {
		s = s[3:]
	}
	if i := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 && len(s)-i-1 == 3 && isCode(s[i+1:]) {
		s = s[:i+1]
	}
	return strings.TrimSpace(s)
}
