package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var daysPerYear = decimal.NewFromInt(365)

const secondsPerDay = 24 * 60 * 60

var maxFiscalYear = decimal.NewFromInt(9999)

// FiscalYearEnd returns June 30 of year, the last day of that fiscal year.
func FiscalYearEnd(year int) time.Time {
	return time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// FiscalYearStart returns July 1 of the prior calendar year.
func FiscalYearStart(year int) time.Time {
	return time.Date(year-1, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// ParseFiscalYear parses a fiscal year cell. Spreadsheet exports may carry
// the year as a number such as "2021.0"; any integral value in 1..9999 is
// accepted.
func ParseFiscalYear(s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, fmt.Errorf("empty fiscal year")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, fmt.Errorf("invalid fiscal year %q", s)
	}
	if !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxFiscalYear) {
		return 0, fmt.Errorf("fiscal year %q out of range", s)
	}
	return int(d.IntPart()), nil
}

// ParseDate parses a source date at day granularity in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount parses a source number exactly. A leading "$", thousands
// separators and accounting parentheses for negatives are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}

	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	}
	v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// YearsOnForce is the absolute distance in days between asOf and appointed,
// divided by 365. Leap days are not special-cased. Days come from Unix
// seconds so distant dates do not overflow a time.Duration.
func YearsOnForce(asOf, appointed time.Time) decimal.Decimal {
	days := (asOf.Unix() - appointed.Unix()) / secondsPerDay
	if days < 0 {
		days = -days
	}
	return decimal.NewFromInt(days).Div(daysPerYear)
}

// IsCohortYear reports whether assigned is on or before the end of the fiscal year.
func IsCohortYear(assigned time.Time, fiscalYear int) bool {
	if assigned.IsZero() {
		return false
	}
	return !assigned.After(FiscalYearEnd(fiscalYear))
}

// IsCohortJoinYear reports whether assigned falls strictly between June 30
// of the prior fiscal year and June 30 of this one. Dates are whole days, so
// the window opens on FiscalYearStart.
func IsCohortJoinYear(assigned time.Time, fiscalYear int) bool {
	if assigned.IsZero() {
		return false
	}
	return !assigned.Before(FiscalYearStart(fiscalYear)) && assigned.Before(FiscalYearEnd(fiscalYear))
}
