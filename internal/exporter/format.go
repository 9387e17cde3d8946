package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// formatDecimal formats d with exactly precision decimal places
func formatDecimal(d decimal.Decimal, precision int32) string {
	return d.StringFixed(precision)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
