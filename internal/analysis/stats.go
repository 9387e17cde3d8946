package analysis

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/payroll"
)

// minChunk is the smallest slice worth aggregating on its own goroutine.
const minChunk = 2048

// Stats is the count and per-field sums over a set of records.
type Stats struct {
	Count int
	Sum   map[payroll.Field]decimal.Decimal
}

// NewStats returns empty stats with a zero sum for every field.
func NewStats(fields []payroll.Field) Stats {
	sum := make(map[payroll.Field]decimal.Decimal, len(fields))
	for _, f := range fields {
		sum[f] = decimal.Zero
	}
	return Stats{Sum: sum}
}

// Aggregate sums the stat fields of records, in input order.
func Aggregate(records []payroll.PayrollRecord) Stats {
	s := NewStats(payroll.StatFields)
	for _, r := range records {
		s.Count++
		for _, f := range payroll.StatFields {
			s.Sum[f] = s.Sum[f].Add(r.Value(f))
		}
	}
	return s
}

// AggregateChanges sums the pay changes of the records that carry one.
func AggregateChanges(records []payroll.PayrollRecord) Stats {
	s := NewStats(payroll.PayFields)
	for _, r := range records {
		if !r.HasChange() {
			continue
		}
		s.Count++
		for _, f := range payroll.PayFields {
			d, _ := r.Change(f)
			s.Sum[f] = s.Sum[f].Add(d)
		}
	}
	return s
}

// AggregateConcurrent splits records into at most workers chunks, aggregates
// them in parallel and merges the partial stats in chunk order.
func AggregateConcurrent(ctx context.Context, records []payroll.PayrollRecord, workers int) (Stats, error) {
	if workers < 2 || len(records) < 2*minChunk {
		return Aggregate(records), nil
	}

	size := (len(records) + workers - 1) / workers
	if size < minChunk {
		size = minChunk
	}
	chunks := (len(records) + size - 1) / size
	partials := make([]Stats, chunks)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < chunks; i++ {
		lo, hi := i*size, min((i+1)*size, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = Aggregate(records[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	total := NewStats(payroll.StatFields)
	for _, p := range partials {
		total = total.Merge(p)
	}
	return total, nil
}

// Merge returns the combination of s and o. It is associative and
// commutative.
func (s Stats) Merge(o Stats) Stats {
	out := Stats{
		Count: s.Count + o.Count,
		Sum:   make(map[payroll.Field]decimal.Decimal, len(s.Sum)),
	}
	for f, v := range s.Sum {
		out.Sum[f] = v
	}
	for f, v := range o.Sum {
		out.Sum[f] = out.Sum[f].Add(v)
	}
	return out
}

// Total returns the sum of f.
func (s Stats) Total(f payroll.Field) decimal.Decimal {
	return s.Sum[f]
}

// Average returns Sum[f] / Count. It returns ErrEmptyGroup when Count is zero.
func (s Stats) Average(f payroll.Field) (decimal.Decimal, error) {
	if s.Count == 0 {
		return decimal.Zero, apperrors.ErrEmptyGroup
	}
	return s.Sum[f].Div(decimal.NewFromInt(int64(s.Count))), nil
}

// Empty reports whether the stats cover no records.
func (s Stats) Empty() bool {
	return s.Count == 0
}
