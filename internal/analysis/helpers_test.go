package analysis

import (
	"github.com/shopspring/decimal"

	"cohortpay/internal/payroll"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recOpt func(*payroll.PayrollRecord)

func withYear(y int) recOpt { return func(r *payroll.PayrollRecord) { r.FiscalYear = y } }
func withID(id string) recOpt { return func(r *payroll.PayrollRecord) { r.IndividualID = id } }
func withCommand(c string) recOpt { return func(r *payroll.PayrollRecord) { r.Command = c } }
func withRank(rank string) recOpt { return func(r *payroll.PayrollRecord) { r.Rank = rank } }
func withTenure(t string) recOpt { return func(r *payroll.PayrollRecord) { r.Tenure = dec(t) } }
func cohort() recOpt { return func(r *payroll.PayrollRecord) { r.IsCohortMember = true } }
func joinYear() recOpt {
	return func(r *payroll.PayrollRecord) {
		r.IsCohortMember, r.IsCohortYear, r.IsCohortJoinYear = true, true, true
	}
}
func withLeave(s payroll.LeaveStatus) recOpt {
	return func(r *payroll.PayrollRecord) { r.LeaveStatus = s }
}

// withPay sets regular pay and leaves overtime and other pay at zero, so
// total pay equals regular pay.
func withPay(total string) recOpt {
	return func(r *payroll.PayrollRecord) {
		r.RegularPaid = dec(total)
		r.OTPaid = decimal.Zero
		r.OtherPaid = decimal.Zero
	}
}

func record(opts ...recOpt) payroll.PayrollRecord {
	r := payroll.PayrollRecord{
		IndividualID: "1",
		Command:      "PCT 001",
		Rank:         "POLICE OFFICER",
		FiscalYear:   2021,
		LeaveStatus:  payroll.LeaveActive,
		BaseSalary:   dec("85000"),
		RegularHours: dec("2080"),
		RegularPaid:  dec("80000"),
		OTHours:      dec("100"),
		OTPaid:       dec("10000"),
		OtherPaid:    dec("2000"),
		Tenure:       dec("7.5"),
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}
