package payroll

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/files"
	"cohortpay/internal/infrastructure"
)

// Source column names. They must match the source header exactly.
const (
	ColumnTaxID          = "taxid"
	ColumnCommand        = "command"
	ColumnRank           = "rank"
	ColumnApptDate       = "appt_date"
	ColumnAssignmentDate = "assignment_date"
	ColumnFiscalYear     = "Fiscal Year"
	ColumnLeaveStatus    = "Leave Status as of June 30"
	ColumnBaseSalary     = "Base Salary"
	ColumnRegularHours   = "Regular Hours"
	ColumnRegularPaid    = "Regular Gross Paid"
	ColumnOTHours        = "OT Hours"
	ColumnOTPaid         = "Total OT Paid"
	ColumnOtherPaid      = "Total Other Pay"
)

// DropReason names why a row did not become a record.
type DropReason string

const (
	DropMalformedRow    DropReason = "malformed_row"
	DropInvalidValue    DropReason = "invalid_value"
	DropInvalidDateJoin DropReason = "invalid_date_join"
)

// Options configures the loader.
type Options struct {
	CohortCommands      []string
	AsOf                time.Time
	ExecutiveRankPrefix string
}

// LoadResult is the outcome of a load.
type LoadResult struct {
	Records []PayrollRecord
	// Ranks are the distinct ranks of the kept records, sorted, without
	// ranks starting with the executive prefix.
	Ranks     []string
	RowsRead  int
	Dropped   map[DropReason]int
	RowErrors []*apperrors.RowError
}

// DroppedTotal returns the number of dropped rows across all reasons.
func (r *LoadResult) DroppedTotal() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// Loader normalizes source tables into payroll records.
type Loader struct {
	opts    Options
	cohort  map[string]struct{}
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewLoader creates a loader. metrics may be nil.
func NewLoader(opts Options, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	cohort := make(map[string]struct{}, len(opts.CohortCommands))
	for _, c := range opts.CohortCommands {
		cohort[c] = struct{}{}
	}
	return &Loader{
		opts:    opts,
		cohort:  cohort,
		logger:  logger,
		metrics: metrics,
	}
}

// IsCohortCommand reports whether command is one of the cohort commands.
func (l *Loader) IsCohortCommand(command string) bool {
	_, ok := l.cohort[command]
	return ok
}

// Load parses every row of tables, in order. Row problems drop the row and
// are collected in the result; the only error is ErrNoInput when the tables
// hold no rows at all.
func (l *Loader) Load(ctx context.Context, tables []files.Table) (*LoadResult, error) {
	result := &LoadResult{
		Dropped: map[DropReason]int{
			DropMalformedRow:    0,
			DropInvalidValue:    0,
			DropInvalidDateJoin: 0,
		},
	}

	for _, table := range tables {
		result.RowsRead += len(table.Rows)
		l.addRowsRead(ctx, table.Name, len(table.Rows))
	}
	l.logger.InfoContext(ctx, "Imported payroll rows",
		slog.Int("sources", len(tables)),
		slog.Int("rows", result.RowsRead))

	if result.RowsRead == 0 {
		return nil, apperrors.NewNoInputError(len(tables))
	}

	ranks := make(map[string]struct{})
	for _, table := range tables {
		for _, row := range table.Rows {
			rec, err := l.ParseRow(table.Name, row)
			if err != nil {
				l.drop(ctx, result, err)
				continue
			}
			result.Records = append(result.Records, rec)
			ranks[rec.Rank] = struct{}{}
		}
	}

	for rank := range ranks {
		if l.opts.ExecutiveRankPrefix != "" && strings.HasPrefix(rank, l.opts.ExecutiveRankPrefix) {
			continue
		}
		result.Ranks = append(result.Ranks, rank)
	}
	sort.Strings(result.Ranks)

	if l.metrics != nil {
		l.metrics.RecordsLoaded.Add(ctx, int64(len(result.Records)))
	}

	matched := result.RowsRead - result.Dropped[DropMalformedRow]
	l.logger.InfoContext(ctx, "Profiles matched to payroll",
		slog.Int("records", matched),
		slog.Int("dropped", result.Dropped[DropMalformedRow]))
	l.logger.InfoContext(ctx, "Payroll records loaded",
		slog.Int("records", len(result.Records)),
		slog.Int("invalid_value", result.Dropped[DropInvalidValue]),
		slog.Int("invalid_date_join", result.Dropped[DropInvalidDateJoin]),
		slog.Int("ranks", len(result.Ranks)))

	return result, nil
}

// ParseRow normalizes a single row. The returned error is a *RowError whose
// kind is ErrMalformedRow, ErrInvalidValue or ErrInvalidDateJoin.
func (l *Loader) ParseRow(source string, row files.Row) (PayrollRecord, error) {
	rowErr := func(kind error, field string, cause error) error {
		return apperrors.NewRowError(source, row.Line, kind, field, cause)
	}

	year, err := ParseFiscalYear(row.Get(ColumnFiscalYear))
	if err != nil {
		return PayrollRecord{}, rowErr(apperrors.ErrMalformedRow, ColumnFiscalYear, err)
	}

	rec := PayrollRecord{
		IndividualID: row.Get(ColumnTaxID),
		Command:      row.Get(ColumnCommand),
		Rank:         row.Get(ColumnRank),
		FiscalYear:   year,
		LeaveStatus:  ParseLeaveStatus(row.Get(ColumnLeaveStatus)),
		Source:       source,
		Line:         row.Line,
	}

	for _, a := range []struct {
		column string
		dst    *decimal.Decimal
	}{
		{ColumnBaseSalary, &rec.BaseSalary},
		{ColumnRegularHours, &rec.RegularHours},
		{ColumnRegularPaid, &rec.RegularPaid},
		{ColumnOTHours, &rec.OTHours},
		{ColumnOTPaid, &rec.OTPaid},
		{ColumnOtherPaid, &rec.OtherPaid},
	} {
		v, err := ParseAmount(row.Get(a.column))
		if err != nil {
			return PayrollRecord{}, rowErr(apperrors.ErrInvalidValue, a.column, err)
		}
		*a.dst = v
	}

	rec.AppointmentDate, err = ParseDate(row.Get(ColumnApptDate))
	if err != nil {
		return PayrollRecord{}, rowErr(apperrors.ErrInvalidValue, ColumnApptDate, err)
	}
	if raw := row.Get(ColumnAssignmentDate); raw != "" {
		rec.AssignmentDate, err = ParseDate(raw)
		if err != nil {
			return PayrollRecord{}, rowErr(apperrors.ErrInvalidValue, ColumnAssignmentDate, err)
		}
	}

	if rec.AppointmentDate.After(FiscalYearEnd(year)) {
		return PayrollRecord{}, rowErr(apperrors.ErrInvalidDateJoin, ColumnApptDate, nil)
	}

	rec.Tenure = YearsOnForce(l.opts.AsOf, rec.AppointmentDate)
	rec.IsCohortMember = l.IsCohortCommand(rec.Command)
	rec.IsCohortYear = rec.IsCohortMember && IsCohortYear(rec.AssignmentDate, year)
	rec.IsCohortJoinYear = rec.IsCohortMember && IsCohortJoinYear(rec.AssignmentDate, year)

	return rec, nil
}

func (l *Loader) drop(ctx context.Context, result *LoadResult, err error) {
	var rowErr *apperrors.RowError
	if !errors.As(err, &rowErr) {
		return
	}

	reason := DropInvalidValue
	switch {
	case errors.Is(err, apperrors.ErrMalformedRow):
		reason = DropMalformedRow
	case errors.Is(err, apperrors.ErrInvalidDateJoin):
		reason = DropInvalidDateJoin
	}

	result.Dropped[reason]++
	result.RowErrors = append(result.RowErrors, rowErr)

	if l.metrics != nil {
		l.metrics.RowsDropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
	}

	// A missing fiscal year is the normal outcome of an unmatched profile.
	if reason != DropMalformedRow {
		l.logger.DebugContext(ctx, "Dropped payroll row",
			slog.String("source", rowErr.Source),
			slog.Int("line", rowErr.Line),
			slog.String("reason", string(reason)),
			slog.String("error", rowErr.Error()))
	}
}

func (l *Loader) addRowsRead(ctx context.Context, source string, n int) {
	if l.metrics == nil {
		return
	}
	l.metrics.RowsRead.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}
