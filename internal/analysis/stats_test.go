package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/payroll"
)

func TestAggregate(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withPay("1000"), withTenure("5")),
		record(withPay("2000.50"), withTenure("10")),
		record(withPay("3000.25"), withTenure("12.5")),
	}

	s := Aggregate(records)

	assert.Equal(t, len(records), s.Count)
	for _, f := range payroll.StatFields {
		expected := decimal.Zero
		for _, r := range records {
			expected = expected.Add(r.Value(f))
		}
		assert.True(t, expected.Equal(s.Total(f)), "sum of %s", f)

		avg, err := s.Average(f)
		require.NoError(t, err)
		assert.True(t, s.Total(f).Div(decimal.NewFromInt(3)).Equal(avg), "average of %s", f)
	}

	assert.True(t, dec("6000.75").Equal(s.Total(payroll.TotalPaid)))
	avg, err := s.Average(payroll.TenureYears)
	require.NoError(t, err)
	assert.True(t, dec("9.1666666666666667").Equal(avg), "got %s", avg)
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)

	assert.Equal(t, 0, s.Count)
	assert.True(t, s.Empty())
	for _, f := range payroll.StatFields {
		assert.True(t, s.Total(f).IsZero())
		_, err := s.Average(f)
		assert.ErrorIs(t, err, apperrors.ErrEmptyGroup)
	}
}

func TestStats_Merge(t *testing.T) {
	var records []payroll.PayrollRecord
	for i := 0; i < 10; i++ {
		records = append(records, record(withPay(fmt.Sprintf("%d.33", 1000+i)), withTenure(fmt.Sprintf("%d.1", i))))
	}

	whole := Aggregate(records)
	a, b, c := Aggregate(records[:3]), Aggregate(records[3:7]), Aggregate(records[7:])

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	swapped := c.Merge(a).Merge(b)

	for _, merged := range []Stats{left, right, swapped} {
		assert.Equal(t, whole.Count, merged.Count)
		for _, f := range payroll.StatFields {
			assert.True(t, whole.Total(f).Equal(merged.Total(f)), "field %s", f)
			wa, _ := whole.Average(f)
			ma, _ := merged.Average(f)
			assert.Equal(t, wa.String(), ma.String())
		}
	}

	empty := NewStats(payroll.StatFields)
	assert.Equal(t, whole.Count, whole.Merge(empty).Count)
}

func TestAggregateConcurrent(t *testing.T) {
	records := make([]payroll.PayrollRecord, 3*minChunk+17)
	for i := range records {
		records[i] = record(withPay(fmt.Sprintf("%d.07", 50000+i%977)), withTenure(fmt.Sprintf("%d.3", i%31)))
	}

	serial := Aggregate(records)
	for _, workers := range []int{0, 1, 2, 4, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := AggregateConcurrent(context.Background(), records, workers)
			require.NoError(t, err)
			assert.Equal(t, serial.Count, got.Count)
			for _, f := range payroll.StatFields {
				sa, _ := serial.Average(f)
				ga, _ := got.Average(f)
				assert.Equal(t, sa.String(), ga.String(), "field %s", f)
			}
		})
	}
}

func TestAggregateConcurrent_Canceled(t *testing.T) {
	records := make([]payroll.PayrollRecord, 4*minChunk)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AggregateConcurrent(ctx, records, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregateChanges(t *testing.T) {
	withChange := record()
	withChange.Changes = map[payroll.Field]decimal.Decimal{}
	for _, f := range payroll.PayFields {
		withChange.Changes[f] = dec("10")
	}
	withChange.Changes[payroll.TotalPaid] = dec("200")

	s := AggregateChanges([]payroll.PayrollRecord{withChange, record(), withChange})

	assert.Equal(t, 2, s.Count)
	assert.True(t, dec("400").Equal(s.Total(payroll.TotalPaid)))
	avg, err := s.Average(payroll.BaseSalary)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(avg))
	_, ok := s.Sum[payroll.TenureYears]
	assert.False(t, ok)
}
