package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"cohortpay/internal/payroll"
)

// PartitionOptions configures the Cohort Partitioner.
type PartitionOptions struct {
	SpecializedCommands []string
	// RankMinimum is exclusive: a rank needs more cohort members than this.
	RankMinimum      int
	TenureBoundaries []int
	// TargetYear selects the fiscal year; zero means the most recent one.
	TargetYear int
}

// Group is a named subset of records.
type Group struct {
	Name    string
	Records []payroll.PayrollRecord
}

// Comparison pairs the cohort and non-cohort records of one slice.
type Comparison struct {
	Cohort    []payroll.PayrollRecord
	NonCohort []payroll.PayrollRecord
}

// RankGroup is the comparison for one rank.
type RankGroup struct {
	Rank string
	Comparison
}

// TenureGroup is the comparison for tenure in (Lower, Upper] years.
type TenureGroup struct {
	Lower int
	Upper int
	Comparison
}

// Partition is the set of target-year subsets fed to the aggregator.
type Partition struct {
	TargetYear  int
	Cohort      []payroll.PayrollRecord
	NonCohort   []payroll.PayrollRecord
	Specialized []payroll.PayrollRecord
	// ByCommand is sorted by command name.
	ByCommand []Group
	// ByRank follows the order of the ranks passed in.
	ByRank []RankGroup
	// ByTenure follows the order of the boundaries.
	ByTenure []TenureGroup
}

// Partitioner slices records along command, rank, tenure and cohort membership.
type Partitioner struct {
	opts        PartitionOptions
	specialized map[string]struct{}
	logger      *slog.Logger
}

// NewPartitioner creates a partitioner.
func NewPartitioner(opts PartitionOptions, logger *slog.Logger) *Partitioner {
	if logger == nil {
		logger = slog.Default()
	}
	specialized := make(map[string]struct{}, len(opts.SpecializedCommands))
	for _, c := range opts.SpecializedCommands {
		specialized[c] = struct{}{}
	}
	return &Partitioner{opts: opts, specialized: specialized, logger: logger}
}

// LatestYear returns the largest fiscal year in records, or zero.
func LatestYear(records []payroll.PayrollRecord) int {
	year := 0
	for _, r := range records {
		if r.FiscalYear > year {
			year = r.FiscalYear
		}
	}
	return year
}

// Partition builds the target-year subsets. ranks are considered in the
// order given.
func (p *Partitioner) Partition(ctx context.Context, records []payroll.PayrollRecord, ranks []string) *Partition {
	target := p.opts.TargetYear
	if target == 0 {
		target = LatestYear(records)
	}

	part := &Partition{TargetYear: target}
	byCommand := make(map[string][]payroll.PayrollRecord)
	for _, r := range records {
		if r.FiscalYear != target {
			continue
		}
		if r.IsCohortMember {
			part.Cohort = append(part.Cohort, r)
		} else {
			part.NonCohort = append(part.NonCohort, r)
		}
		if _, ok := p.specialized[r.Command]; ok {
			part.Specialized = append(part.Specialized, r)
		}
		byCommand[r.Command] = append(byCommand[r.Command], r)
	}

	commands := make([]string, 0, len(byCommand))
	for c := range byCommand {
		commands = append(commands, c)
	}
	sort.Strings(commands)
	for _, c := range commands {
		part.ByCommand = append(part.ByCommand, Group{Name: c, Records: byCommand[c]})
	}

	for _, rank := range ranks {
		g := RankGroup{Rank: rank, Comparison: splitBy(part, func(r payroll.PayrollRecord) bool {
			return r.Rank == rank
		})}
		if len(g.Cohort) <= p.opts.RankMinimum {
			continue
		}
		part.ByRank = append(part.ByRank, g)
	}

	lower := 0
	for _, upper := range p.opts.TenureBoundaries {
		lo, hi := decimal.NewFromInt(int64(lower)), decimal.NewFromInt(int64(upper))
		part.ByTenure = append(part.ByTenure, TenureGroup{
			Lower: lower,
			Upper: upper,
			Comparison: splitBy(part, func(r payroll.PayrollRecord) bool {
				return r.Tenure.GreaterThan(lo) && r.Tenure.LessThanOrEqual(hi)
			}),
		})
		lower = upper
	}

	p.logger.InfoContext(ctx, "Partitioned target year",
		slog.Int("target_year", target),
		slog.Int("cohort", len(part.Cohort)),
		slog.Int("non_cohort", len(part.NonCohort)),
		slog.Int("specialized", len(part.Specialized)),
		slog.Int("commands", len(part.ByCommand)),
		slog.Int("ranks", len(part.ByRank)),
		slog.Int("ranks_below_minimum", len(ranks)-len(part.ByRank)))

	return part
}

func splitBy(part *Partition, keep func(payroll.PayrollRecord) bool) Comparison {
	var c Comparison
	for _, r := range part.Cohort {
		if keep(r) {
			c.Cohort = append(c.Cohort, r)
		}
	}
	for _, r := range part.NonCohort {
		if keep(r) {
			c.NonCohort = append(c.NonCohort, r)
		}
	}
	return c
}

// NamedStats is the summary of one named group.
type NamedStats struct {
	Name  string
	Stats Stats
}

// ComparisonStats is the summary of a Comparison.
type ComparisonStats struct {
	Cohort    Stats
	NonCohort Stats
}

// RankStats is the summary of a RankGroup.
type RankStats struct {
	Rank string
	ComparisonStats
}

// TenureStats is the summary of a TenureGroup.
type TenureStats struct {
	Lower int
	Upper int
	ComparisonStats
}

// Summary holds the aggregated stats of every subset of a Partition.
type Summary struct {
	TargetYear  int
	Cohort      Stats
	NonCohort   Stats
	Specialized Stats
	Commands    []NamedStats
	Ranks       []RankStats
	Tenure      []TenureStats
}

// Summarize aggregates every subset of part. Groups are aggregated on up to
// workers goroutines; the result does not depend on scheduling.
func Summarize(ctx context.Context, part *Partition, workers int) (*Summary, error) {
	if workers < 1 {
		workers = 1
	}

	s := &Summary{
		TargetYear: part.TargetYear,
		Commands:   make([]NamedStats, len(part.ByCommand)),
		Ranks:      make([]RankStats, len(part.ByRank)),
		Tenure:     make([]TenureStats, len(part.ByTenure)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	aggregate := func(dst *Stats, records []payroll.PayrollRecord) {
		g.Go(func() error {
			st, err := AggregateConcurrent(gctx, records, workers)
			if err != nil {
				return err
			}
			*dst = st
			return nil
		})
	}

	aggregate(&s.Cohort, part.Cohort)
	aggregate(&s.NonCohort, part.NonCohort)
	aggregate(&s.Specialized, part.Specialized)
	for i, grp := range part.ByCommand {
		s.Commands[i].Name = grp.Name
		aggregate(&s.Commands[i].Stats, grp.Records)
	}
	for i, grp := range part.ByRank {
		s.Ranks[i].Rank = grp.Rank
		aggregate(&s.Ranks[i].Cohort, grp.Cohort)
		aggregate(&s.Ranks[i].NonCohort, grp.NonCohort)
	}
	for i, grp := range part.ByTenure {
		s.Tenure[i].Lower, s.Tenure[i].Upper = grp.Lower, grp.Upper
		aggregate(&s.Tenure[i].Cohort, grp.Cohort)
		aggregate(&s.Tenure[i].NonCohort, grp.NonCohort)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}
