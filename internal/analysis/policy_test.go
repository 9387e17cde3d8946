package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/payroll"
)

func TestParseLeavePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected LeavePolicy
		wantErr  bool
	}{
		{"all", LeaveAll, false},
		{"active", LeaveActiveOnly, false},
		{"", LeaveAll, false},
		{"ACTIVE", "", true},
		{"none", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLeavePolicy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLeavePolicy_Apply(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withID("1"), withLeave(payroll.LeaveActive)),
		record(withID("2"), withLeave(payroll.LeaveOnLeave)),
		record(withID("3"), withLeave(payroll.LeaveCeased)),
		record(withID("4"), withLeave(payroll.LeaveOnSeparation)),
		record(withID("5"), withLeave(payroll.LeaveUnknown)),
		record(withID("6"), withLeave(payroll.LeaveActive)),
	}

	assert.Len(t, LeaveAll.Apply(records), 6)

	active := LeaveActiveOnly.Apply(records)
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].IndividualID)
	assert.Equal(t, "6", active[1].IndividualID)
	assert.Len(t, records, 6)
}
