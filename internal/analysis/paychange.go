package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"cohortpay/internal/payroll"
)

// Individual is one officer's records across fiscal years, ordered by year.
type Individual struct {
	ID      string
	Records []payroll.PayrollRecord
}

// GroupByIndividual groups records by individual id. Individuals are sorted
// by id; records of the same year keep their input order.
func GroupByIndividual(records []payroll.PayrollRecord) []Individual {
	byID := make(map[string][]payroll.PayrollRecord)
	for _, r := range records {
		byID[r.IndividualID] = append(byID[r.IndividualID], r)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Individual, 0, len(ids))
	for _, id := range ids {
		recs := byID[id]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].FiscalYear < recs[j].FiscalYear
		})
		out = append(out, Individual{ID: id, Records: recs})
	}
	return out
}

// WithChanges returns a copy of ind whose records carry pay changes against
// the individual's prior-year record. When several records share the prior
// year, the first one is used. Records without a prior year get no changes.
func WithChanges(ind Individual) Individual {
	first := make(map[int]payroll.PayrollRecord, len(ind.Records))
	for _, r := range ind.Records {
		if _, ok := first[r.FiscalYear]; !ok {
			first[r.FiscalYear] = r
		}
	}

	out := Individual{ID: ind.ID, Records: make([]payroll.PayrollRecord, len(ind.Records))}
	for i, r := range ind.Records {
		prev, ok := first[r.FiscalYear-1]
		if ok {
			changes := make(map[payroll.Field]decimal.Decimal, len(payroll.PayFields))
			for _, f := range payroll.PayFields {
				changes[f] = r.Value(f).Sub(prev.Value(f))
			}
			r.Changes = changes
		} else {
			r.Changes = nil
		}
		out.Records[i] = r
	}
	return out
}

// PayChange compares year-over-year pay changes in the cohort join year
// with all other year-to-year transitions.
type PayChange struct {
	Individuals []Individual
	JoinYear    Stats
	OtherYears  Stats
}

// CalculatePayChange groups records by individual, attaches pay changes and
// splits every record carrying a total pay change by its join-year flag.
func CalculatePayChange(ctx context.Context, records []payroll.PayrollRecord, logger *slog.Logger) *PayChange {
	if logger == nil {
		logger = slog.Default()
	}

	individuals := GroupByIndividual(records)
	var join, other []payroll.PayrollRecord
	for i, ind := range individuals {
		ind = WithChanges(ind)
		individuals[i] = ind
		for _, r := range ind.Records {
			if !r.HasChange() {
				continue
			}
			if r.IsCohortJoinYear {
				join = append(join, r)
			} else {
				other = append(other, r)
			}
		}
	}

	pc := &PayChange{
		Individuals: individuals,
		JoinYear:    AggregateChanges(join),
		OtherYears:  AggregateChanges(other),
	}

	logger.InfoContext(ctx, "Calculated pay changes",
		slog.Int("individuals", len(individuals)),
		slog.Int("join_year", pc.JoinYear.Count),
		slog.Int("other_years", pc.OtherYears.Count),
		slog.Int("without_prior_year", len(records)-pc.JoinYear.Count-pc.OtherYears.Count))

	return pc
}
