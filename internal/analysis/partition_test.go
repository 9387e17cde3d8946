package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohortpay/internal/payroll"
)

func testPartitioner(opts PartitionOptions) *Partitioner {
	if opts.TenureBoundaries == nil {
		opts.TenureBoundaries = []int{5, 10, 15, 20, 25, 30}
	}
	if opts.RankMinimum == 0 {
		opts.RankMinimum = 5
	}
	return NewPartitioner(opts, nil)
}

func repeat(n int, opts ...recOpt) []payroll.PayrollRecord {
	out := make([]payroll.PayrollRecord, n)
	for i := range out {
		out[i] = record(opts...)
	}
	return out
}

func TestLatestYear(t *testing.T) {
	assert.Equal(t, 0, LatestYear(nil))
	assert.Equal(t, 2021, LatestYear([]payroll.PayrollRecord{
		record(withYear(2019)), record(withYear(2021)), record(withYear(2020)),
	}))
}

func TestPartition_TargetYear(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withYear(2020), cohort(), withCommand("COHORT UNIT")),
		record(withYear(2021), cohort(), withCommand("COHORT UNIT")),
		record(withYear(2021)),
		record(withYear(2021)),
	}

	part := testPartitioner(PartitionOptions{}).Partition(context.Background(), records, nil)
	assert.Equal(t, 2021, part.TargetYear)
	assert.Len(t, part.Cohort, 1)
	assert.Len(t, part.NonCohort, 2)

	part = testPartitioner(PartitionOptions{TargetYear: 2020}).Partition(context.Background(), records, nil)
	assert.Equal(t, 2020, part.TargetYear)
	assert.Len(t, part.Cohort, 1)
	assert.Empty(t, part.NonCohort)
}

func TestPartition_ByCommandSorted(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withCommand("PCT 075")),
		record(withCommand("HIGHWAY UNIT")),
		record(withCommand("PCT 001")),
		record(withCommand("HIGHWAY UNIT")),
		record(withCommand("Harbor")),
		record(withCommand("PCT 001"), withYear(2020)),
	}

	part := testPartitioner(PartitionOptions{}).Partition(context.Background(), records, nil)

	names := make([]string, len(part.ByCommand))
	for i, g := range part.ByCommand {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"HIGHWAY UNIT", "Harbor", "PCT 001", "PCT 075"}, names)
	assert.Len(t, part.ByCommand[0].Records, 2)
	assert.Len(t, part.ByCommand[2].Records, 1)
}

func TestPartition_Specialized(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withCommand("EMERGENCY SERVICES UNIT")),
		record(withCommand("ESU CANINE TEAM")),
		record(withCommand("ESU CANINE TEAM"), withYear(2020)),
		record(withCommand("PCT 001")),
	}

	part := testPartitioner(PartitionOptions{
		SpecializedCommands: []string{"EMERGENCY SERVICES UNIT", "ESU CANINE TEAM"},
	}).Partition(context.Background(), records, nil)

	assert.Len(t, part.Specialized, 2)
}

func TestPartition_RankMinimum(t *testing.T) {
	var records []payroll.PayrollRecord
	records = append(records, repeat(5, cohort(), withRank("CAPTAIN"))...)
	records = append(records, repeat(3, withRank("CAPTAIN"))...)
	records = append(records, repeat(6, cohort(), withRank("SERGEANT"))...)
	records = append(records, repeat(6, cohort(), withRank("LIEUTENANT"))...)
	records = append(records, repeat(9, cohort(), withRank("DETECTIVE"), withYear(2020))...)
	records = append(records, repeat(4, withRank("SERGEANT"))...)
	records = append(records, record(withRank("DETECTIVE")))

	part := testPartitioner(PartitionOptions{}).Partition(context.Background(), records,
		[]string{"CAPTAIN", "DETECTIVE", "SERGEANT", "LIEUTENANT"})

	require.Len(t, part.ByRank, 2)
	assert.Equal(t, "SERGEANT", part.ByRank[0].Rank)
	assert.Len(t, part.ByRank[0].Cohort, 6)
	assert.Len(t, part.ByRank[0].NonCohort, 4)

	// Included on cohort count even with no non-cohort officers.
	assert.Equal(t, "LIEUTENANT", part.ByRank[1].Rank)
	assert.Len(t, part.ByRank[1].Cohort, 6)
	assert.Empty(t, part.ByRank[1].NonCohort)
}

func TestPartition_TenureBuckets(t *testing.T) {
	records := []payroll.PayrollRecord{
		record(withTenure("0")),
		record(withTenure("0.01")),
		record(withTenure("5")),
		record(withTenure("5.0001")),
		record(withTenure("10.0")),
		record(withTenure("10.0"), cohort()),
		record(withTenure("29.9"), cohort()),
		record(withTenure("31")),
	}

	part := testPartitioner(PartitionOptions{}).Partition(context.Background(), records, nil)
	require.Len(t, part.ByTenure, 6)

	counts := make([][2]int, len(part.ByTenure))
	for i, g := range part.ByTenure {
		counts[i] = [2]int{len(g.Cohort), len(g.NonCohort)}
	}
	assert.Equal(t, [][2]int{
		{0, 2}, // (0,5]
		{1, 2}, // (5,10]
		{0, 0},
		{0, 0},
		{0, 0},
		{1, 0}, // (25,30]
	}, counts)

	assert.Equal(t, 5, part.ByTenure[1].Lower)
	assert.Equal(t, 10, part.ByTenure[1].Upper)
}

func TestPartition_Empty(t *testing.T) {
	part := testPartitioner(PartitionOptions{}).Partition(context.Background(), nil, []string{"SERGEANT"})

	assert.Equal(t, 0, part.TargetYear)
	assert.Empty(t, part.ByCommand)
	assert.Empty(t, part.ByRank)
	assert.Len(t, part.ByTenure, 6)
}

func TestPartition_DoesNotModifyInput(t *testing.T) {
	records := []payroll.PayrollRecord{record(withCommand("B")), record(withCommand("A"))}
	testPartitioner(PartitionOptions{}).Partition(context.Background(), records, nil)

	assert.Equal(t, "B", records[0].Command)
	assert.Equal(t, "A", records[1].Command)
}

func TestSummarize(t *testing.T) {
	var records []payroll.PayrollRecord
	records = append(records, repeat(6, cohort(), withRank("SERGEANT"), withCommand("COHORT UNIT"), withPay("1000"))...)
	records = append(records, repeat(2, withRank("SERGEANT"), withCommand("PCT 001"), withPay("500"))...)
	records = append(records, repeat(3, withCommand("ESU CANINE TEAM"), withPay("700"))...)

	part := testPartitioner(PartitionOptions{SpecializedCommands: []string{"ESU CANINE TEAM"}}).
		Partition(context.Background(), records, []string{"POLICE OFFICER", "SERGEANT"})

	for _, workers := range []int{0, 1, 4} {
		s, err := Summarize(context.Background(), part, workers)
		require.NoError(t, err)

		assert.Equal(t, 2021, s.TargetYear)
		assert.Equal(t, 6, s.Cohort.Count)
		assert.Equal(t, 5, s.NonCohort.Count)
		assert.Equal(t, 3, s.Specialized.Count)
		assert.True(t, dec("6000").Equal(s.Cohort.Total(payroll.TotalPaid)))

		require.Len(t, s.Commands, 3)
		assert.Equal(t, "COHORT UNIT", s.Commands[0].Name)
		assert.Equal(t, "ESU CANINE TEAM", s.Commands[1].Name)
		assert.Equal(t, 3, s.Commands[1].Stats.Count)

		require.Len(t, s.Ranks, 1)
		assert.Equal(t, "SERGEANT", s.Ranks[0].Rank)
		assert.Equal(t, 6, s.Ranks[0].Cohort.Count)
		assert.Equal(t, 2, s.Ranks[0].NonCohort.Count)
		avg, err := s.Ranks[0].NonCohort.Average(payroll.TotalPaid)
		require.NoError(t, err)
		assert.True(t, dec("500").Equal(avg))

		require.Len(t, s.Tenure, 6)
		assert.Equal(t, 6, s.Tenure[1].Cohort.Count)
		assert.True(t, s.Tenure[0].Cohort.Empty())
	}
}
