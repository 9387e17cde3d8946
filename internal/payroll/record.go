package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field identifies a numeric field of a PayrollRecord.
type Field int

const (
	BaseSalary Field = iota
	RegularHours
	RegularPaid
	OTHours
	OTPaid
	OtherPaid
	TotalPaid
	TenureYears
)

var fieldNames = [...]string{
	BaseSalary:   "base_salary",
	RegularHours: "regular_hours",
	RegularPaid:  "regular_paid",
	OTHours:      "ot_hours",
	OTPaid:       "ot_paid",
	OtherPaid:    "other_paid",
	TotalPaid:    "total_paid",
	TenureYears:  "tenure_years",
}

// String returns the report column stem for f.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// PayFields are the fields that carry year-over-year changes, in report order.
var PayFields = []Field{BaseSalary, RegularHours, RegularPaid, OTHours, OTPaid, OtherPaid, TotalPaid}

// StatFields are the fields summarized by the aggregator, in report order.
var StatFields = []Field{BaseSalary, RegularHours, RegularPaid, OTHours, OTPaid, OtherPaid, TotalPaid, TenureYears}

// LeaveStatus is the leave status as of June 30 of the fiscal year.
type LeaveStatus string

const (
	LeaveActive       LeaveStatus = "ACTIVE"
	LeaveOnLeave      LeaveStatus = "ON LEAVE"
	LeaveCeased       LeaveStatus = "CEASED"
	LeaveOnSeparation LeaveStatus = "ON SEPARATION LEAVE"
	LeaveUnknown      LeaveStatus = "UNKNOWN"
)

// ParseLeaveStatus maps a source value onto a LeaveStatus. Matching ignores
// case and treats underscores as spaces; anything else is LeaveUnknown.
func ParseLeaveStatus(s string) LeaveStatus {
	norm := strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(s, "_", " "))), " ")
	switch LeaveStatus(norm) {
	case LeaveActive, LeaveOnLeave, LeaveCeased, LeaveOnSeparation:
		return LeaveStatus(norm)
	default:
		return LeaveUnknown
	}
}

// PayrollRecord is one officer's payroll for one fiscal year.
type PayrollRecord struct {
	IndividualID    string
	Command         string
	Rank            string
	AppointmentDate time.Time
	// AssignmentDate is zero when the source has none.
	AssignmentDate time.Time
	FiscalYear     int
	LeaveStatus    LeaveStatus

	BaseSalary   decimal.Decimal
	RegularHours decimal.Decimal
	RegularPaid  decimal.Decimal
	OTHours      decimal.Decimal
	OTPaid       decimal.Decimal
	OtherPaid    decimal.Decimal
	Tenure       decimal.Decimal

	IsCohortMember   bool
	IsCohortYear     bool
	IsCohortJoinYear bool

	// Source and Line locate the row the record was loaded from.
	Source string
	Line   int

	// Changes holds value(Y) - value(Y-1) per pay field. Nil when the
	// individual has no record for the prior fiscal year.
	Changes map[Field]decimal.Decimal
}

// TotalPaid is regular plus overtime plus other pay.
func (r PayrollRecord) TotalPaid() decimal.Decimal {
	return r.RegularPaid.Add(r.OTPaid).Add(r.OtherPaid)
}

// Value returns the value of field f.
func (r PayrollRecord) Value(f Field) decimal.Decimal {
	switch f {
	case BaseSalary:
		return r.BaseSalary
	case RegularHours:
		return r.RegularHours
	case RegularPaid:
		return r.RegularPaid
	case OTHours:
		return r.OTHours
	case OTPaid:
		return r.OTPaid
	case OtherPaid:
		return r.OtherPaid
	case TotalPaid:
		return r.TotalPaid()
	case TenureYears:
		return r.Tenure
	default:
		return decimal.Zero
	}
}

// Change returns the year-over-year change of f, if one was computed.
func (r PayrollRecord) Change(f Field) (decimal.Decimal, bool) {
	d, ok := r.Changes[f]
	return d, ok
}

// HasChange reports whether a total pay change is attached.
func (r PayrollRecord) HasChange() bool {
	_, ok := r.Changes[TotalPaid]
	return ok
}
