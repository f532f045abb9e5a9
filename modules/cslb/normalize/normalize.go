// Package normalize holds the pure per-field cleaners for raw CSLB extract
// values. Every function is total: malformed input degrades to "no value"
// (nil) or a best-effort pass-through, never an error.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	businessNameStrip = regexp.MustCompile(`[^A-Za-z0-9 \-&.,']`)
	nonDigits         = regexp.MustCompile(`[^0-9]`)
	nonDecimal        = regexp.MustCompile(`[^0-9.\-]`)

	titleCaser = cases.Title(language.English)
)

// BusinessName trims, collapses internal whitespace and strips characters
// outside the CSLB name alphabet.
func BusinessName(raw string) string {
	cleaned := businessNameStrip.ReplaceAllString(raw, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// City title-cases each whitespace-separated token.
func City(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		fields[i] = titleCaser.String(strings.ToLower(f))
	}
	return strings.Join(fields, " ")
}

// Zip strips non-digits and formats anything longer than five digits as
// DDDDD-DDDD. Shorter digit strings come back as-is, no expansion attempted.
func Zip(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) > 5 {
		return digits[:5] + "-" + digits[5:]
	}
	return digits
}

// Phone formats a ten-digit number as (DDD) DDD-DDDD. Anything else is
// returned unchanged rather than rejected.
func Phone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return raw
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"20060102",
}

// Date parses a date-only value in any of the extract's layouts. Empty or
// unparseable input yields nil, not an error.
func Date(raw string) *time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// Decimal strips everything except digits, '.' and '-' and parses the rest.
// Nil if nothing parseable remains.
func Decimal(raw string) *decimal.Decimal {
	v := nonDecimal.ReplaceAllString(raw, "")
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}

// County prefers an explicit county (upper-cased); otherwise it falls back to
// the static city lookup. Empty string means unknown.
func County(explicit, city string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return strings.ToUpper(v)
	}
	if county, ok := countyByCity[City(city)]; ok {
		return county
	}
	return ""
}
