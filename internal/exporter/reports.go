package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"cohortpay/internal/analysis"
	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/files"
	"cohortpay/internal/infrastructure"
	"cohortpay/internal/payroll"
)

// EmptyGroupPolicy decides how a group with no records is rendered.
type EmptyGroupPolicy string

const (
	// EmptyPlaceholder keeps the row with its count and empty average cells.
	EmptyPlaceholder EmptyGroupPolicy = "placeholder"
	// EmptyOmit drops the row.
	EmptyOmit EmptyGroupPolicy = "omit"
)

// ParseEmptyGroupPolicy validates s.
func ParseEmptyGroupPolicy(s string) (EmptyGroupPolicy, error) {
	switch p := EmptyGroupPolicy(s); p {
	case EmptyPlaceholder, EmptyOmit:
		return p, nil
	case "":
		return EmptyPlaceholder, nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown empty group policy %q", s), nil).
			WithContext("allowed", []EmptyGroupPolicy{EmptyPlaceholder, EmptyOmit})
	}
}

// Report is a rendered output table.
type Report struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReportOptions configures report assembly.
type ReportOptions struct {
	// Label names the cohort in row labels, e.g. "SRG".
	Label       string
	Precision   int32
	EmptyGroups EmptyGroupPolicy

	CommandsName string
	RankYearName string
	PayName      string
}

// ReportBuilder renders analysis results into report tables.
type ReportBuilder struct {
	opts    ReportOptions
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewReportBuilder creates a report builder. metrics may be nil.
func NewReportBuilder(opts ReportOptions, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.EmptyGroups == "" {
		opts.EmptyGroups = EmptyPlaceholder
	}
	return &ReportBuilder{opts: opts, logger: logger, metrics: metrics}
}

func (b *ReportBuilder) allLabel() string { return "ALL " + b.opts.Label }
func (b *ReportBuilder) nonLabel() string { return "NON-" + b.opts.Label }

// Commands renders the per-command summary: the cohort and non-cohort rows
// followed by one row per command, with averages then totals.
func (b *ReportBuilder) Commands(ctx context.Context, s *analysis.Summary) Report {
	header := []string{"command", "officers"}
	for _, f := range payroll.StatFields {
		header = append(header, "avg_"+f.String())
	}
	for _, f := range payroll.StatFields {
		header = append(header, "total_"+f.String())
	}

	r := Report{Name: b.opts.CommandsName, Header: header}
	add := func(name string, st analysis.Stats) {
		if row, ok := b.statsRow(ctx, r.Name, name, st, true); ok {
			r.Rows = append(r.Rows, row)
		}
	}

	add(b.allLabel(), s.Cohort)
	add(b.nonLabel(), s.NonCohort)
	for _, c := range s.Commands {
		add(c.Name, c.Stats)
	}
	return r
}

// RankYear renders the cohort comparison by rank and by years on force.
func (b *ReportBuilder) RankYear(ctx context.Context, s *analysis.Summary) Report {
	header := []string{"command", "officers"}
	for _, f := range payroll.StatFields {
		header = append(header, "avg_"+f.String())
	}

	r := Report{Name: b.opts.RankYearName, Header: header}
	add := func(name string, st analysis.Stats) {
		if row, ok := b.statsRow(ctx, r.Name, name, st, false); ok {
			r.Rows = append(r.Rows, row)
		}
	}
	blank := func() { r.Rows = append(r.Rows, make([]string, len(header))) }
	heading := func(title string) {
		row := make([]string, len(header))
		row[0] = title
		r.Rows = append(r.Rows, row)
	}

	add(b.nonLabel(), s.NonCohort)
	add(b.allLabel(), s.Cohort)
	blank()
	add("OTHER SPECIALIZED", s.Specialized)
	add(b.allLabel(), s.Cohort)
	blank()

	heading("By Rank")
	for _, rs := range s.Ranks {
		add(fmt.Sprintf("%s %s", b.nonLabel(), rs.Rank), rs.NonCohort)
		add(fmt.Sprintf("%s %s", b.opts.Label, rs.Rank), rs.Cohort)
		blank()
	}

	heading("By Years on Force")
	for _, ts := range s.Tenure {
		add(fmt.Sprintf("%s < %d years", b.nonLabel(), ts.Upper), ts.NonCohort)
		add(fmt.Sprintf("%s < %d years", b.opts.Label, ts.Upper), ts.Cohort)
		blank()
	}
	return r
}

// PayChange renders the mean change per pay field in the cohort join year
// and in all other years. An empty group leaves its column blank.
func (b *ReportBuilder) PayChange(ctx context.Context, pc *analysis.PayChange) Report {
	joinCol := fmt.Sprintf("change first %s year", b.opts.Label)
	r := Report{
		Name:   b.opts.PayName,
		Header: []string{"field", joinCol, "change other years"},
	}

	if pc.JoinYear.Empty() {
		b.emptyGroup(ctx, r.Name, joinCol)
	}
	if pc.OtherYears.Empty() {
		b.emptyGroup(ctx, r.Name, "change other years")
	}

	for _, f := range payroll.PayFields {
		r.Rows = append(r.Rows, []string{
			f.String() + "_change",
			b.average(pc.JoinYear, f),
			b.average(pc.OtherYears, f),
		})
	}
	return r
}

// Build renders all three reports.
func (b *ReportBuilder) Build(ctx context.Context, s *analysis.Summary, pc *analysis.PayChange) []Report {
	return []Report{
		b.Commands(ctx, s),
		b.RankYear(ctx, s),
		b.PayChange(ctx, pc),
	}
}

// WriteReports writes every report through w and returns the written locations.
func WriteReports(ctx context.Context, w files.TableWriter, reports []Report) ([]string, error) {
	locations := make([]string, 0, len(reports))
	for _, r := range reports {
		loc, err := w.WriteTable(ctx, r.Name, r.Header, r.Rows)
		if err != nil {
			return locations, apperrors.NewStorageError("failed to write report", err).WithContext("report", r.Name)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// statsRow renders name, count, averages and optionally totals. ok is false
// when the group is empty and the policy omits it.
func (b *ReportBuilder) statsRow(ctx context.Context, report, name string, st analysis.Stats, totals bool) ([]string, bool) {
	if st.Empty() {
		b.emptyGroup(ctx, report, name)
		if b.opts.EmptyGroups == EmptyOmit {
			return nil, false
		}
	}

	row := []string{name, formatInt(st.Count)}
	for _, f := range payroll.StatFields {
		row = append(row, b.average(st, f))
	}
	if totals {
		for _, f := range payroll.StatFields {
			row = append(row, formatDecimal(st.Total(f), b.opts.Precision))
		}
	}
	return row, true
}

// average formats the mean of f, or "" when the group is empty.
func (b *ReportBuilder) average(st analysis.Stats, f payroll.Field) string {
	avg, err := st.Average(f)
	if errors.Is(err, apperrors.ErrEmptyGroup) {
		return ""
	}
	return formatDecimal(avg, b.opts.Precision)
}

func (b *ReportBuilder) emptyGroup(ctx context.Context, report, group string) {
	err := apperrors.NewEmptyGroupError(group).WithContext("report", report)
	b.logger.WarnContext(ctx, "Report group has no records",
		slog.String("report", report),
		slog.String("group", group),
		slog.String("policy", string(b.opts.EmptyGroups)),
		slog.String("error", err.Error()))
	if b.metrics != nil {
		b.metrics.EmptyGroups.Add(ctx, 1, metric.WithAttributes(
			attribute.String("report", report)))
	}
}
