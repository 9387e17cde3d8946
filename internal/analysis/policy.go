package analysis

import (
	"fmt"

	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/payroll"
)

// LeavePolicy decides which leave statuses take part in a calculation.
type LeavePolicy string

const (
	// LeaveAll keeps every record.
	LeaveAll LeavePolicy = "all"
	// LeaveActiveOnly keeps records whose leave status is ACTIVE.
	LeaveActiveOnly LeavePolicy = "active"
)

// ParseLeavePolicy validates s.
func ParseLeavePolicy(s string) (LeavePolicy, error) {
	switch p := LeavePolicy(s); p {
	case LeaveAll, LeaveActiveOnly:
		return p, nil
	case "":
		return LeaveAll, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown leave policy %q", s), nil).
			WithContext("allowed", []LeavePolicy{LeaveAll, LeaveActiveOnly})
	}
}

// Apply returns the records admitted by the policy. The input is not modified.
func (p LeavePolicy) Apply(records []payroll.PayrollRecord) []payroll.PayrollRecord {
	if p != LeaveActiveOnly {
		return records
	}
	out := make([]payroll.PayrollRecord, 0, len(records))
	for _, r := range records {
		if r.LeaveStatus == payroll.LeaveActive {
			out = append(out, r)
		}
	}
	return out
}
