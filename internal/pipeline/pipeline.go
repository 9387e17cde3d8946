package pipeline

import (
	"context"
	"log/slog"
	"time"

	"cohortpay/internal/analysis"
	"cohortpay/internal/config"
	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/exporter"
	"cohortpay/internal/files"
	"cohortpay/internal/infrastructure"
	"cohortpay/internal/payroll"
)

// Stage names used for spans and the stage duration histogram.
const (
	StageRead      = "read"
	StageLoad      = "load"
	StageSummarize = "summarize"
	StagePayChange = "pay_change"
	StageReports   = "build_reports"
	StageWrite     = "write"
)

// Result is everything a run produced.
type Result struct {
	RunID     string
	Sources   []string
	Load      *payroll.LoadResult
	Summary   *analysis.Summary
	PayChange *analysis.PayChange
	Reports   []exporter.Report
	Locations []string
}

// Pipeline runs the analysis over a fixed set of sources.
type Pipeline struct {
	cfg       *config.Config
	reader    files.TableReader
	writer    files.TableWriter
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// New creates a pipeline. telemetry may be nil.
func New(cfg *config.Config, reader files.TableReader, writer files.TableWriter, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		telemetry = infrastructure.NewNoopTelemetry()
	}
	return &Pipeline{
		cfg:       cfg,
		reader:    reader,
		writer:    writer,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Run executes every stage over sources and writes the three reports.
func (p *Pipeline) Run(ctx context.Context, sources []string) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()
	res := &Result{RunID: infrastructure.GetTraceID(ctx), Sources: sources}

	p.logger.InfoContext(ctx, "Starting payroll analysis",
		slog.Int("sources", len(sources)),
		slog.String("cohort", p.cfg.Analysis.CohortLabel))

	leavePolicy, err := analysis.ParseLeavePolicy(p.cfg.Analysis.LeavePolicy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid leave policy", err)
	}
	payLeavePolicy, err := analysis.ParseLeavePolicy(p.cfg.Analysis.PayLeavePolicy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid pay leave policy", err)
	}
	emptyGroups, err := exporter.ParseEmptyGroupPolicy(p.cfg.Analysis.EmptyGroups)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid empty group policy", err)
	}

	res.Load, err = p.load(ctx, sources)
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageSummarize, func(ctx context.Context) error {
		records := leavePolicy.Apply(res.Load.Records)
		part := analysis.NewPartitioner(analysis.PartitionOptions{
			SpecializedCommands: p.cfg.Analysis.SpecializedCommands,
			RankMinimum:         p.cfg.Analysis.RankMinimum,
			TenureBoundaries:    p.cfg.Analysis.TenureBoundaries,
			TargetYear:          p.cfg.Analysis.TargetYear,
		}, p.logger).Partition(ctx, records, res.Load.Ranks)

		var err error
		res.Summary, err = analysis.Summarize(ctx, part, p.cfg.Input.Concurrency)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StagePayChange, func(ctx context.Context) error {
		res.PayChange = analysis.CalculatePayChange(ctx, payLeavePolicy.Apply(res.Load.Records), p.logger)
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageReports, func(ctx context.Context) error {
		res.Reports = exporter.NewReportBuilder(exporter.ReportOptions{
			Label:        p.cfg.Analysis.CohortLabel,
			Precision:    p.cfg.Output.Precision,
			EmptyGroups:  emptyGroups,
			CommandsName: p.cfg.Output.CommandsName,
			RankYearName: p.cfg.Output.RankYearName,
			PayName:      p.cfg.Output.PayName,
		}, p.logger, p.telemetry.Metrics).Build(ctx, res.Summary, res.PayChange)
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageWrite, func(ctx context.Context) error {
		var err error
		res.Locations, err = exporter.WriteReports(ctx, p.writer, res.Reports)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Payroll analysis completed",
		slog.Int("target_year", res.Summary.TargetYear),
		slog.Int("records", len(res.Load.Records)),
		slog.Any("reports", res.Locations),
		slog.Duration("duration", time.Since(start)))

	return res, nil
}

// Load runs the read and load stages only.
func (p *Pipeline) Load(ctx context.Context, sources []string) (*payroll.LoadResult, error) {
	return p.load(infrastructure.EnsureTraceID(ctx), sources)
}

func (p *Pipeline) load(ctx context.Context, sources []string) (*payroll.LoadResult, error) {
	if len(sources) == 0 {
		return nil, apperrors.NewNoInputError(0)
	}

	var tables []files.Table
	err := p.stage(ctx, StageRead, func(ctx context.Context) error {
		var err error
		tables, err = files.ReadAll(ctx, p.reader, sources, p.cfg.Input.Concurrency)
		return err
	})
	if err != nil {
		return nil, err
	}

	asOf, err := p.cfg.Analysis.AsOf()
	if err != nil {
		return nil, apperrors.NewConfigError("invalid as-of date", err)
	}

	var result *payroll.LoadResult
	err = p.stage(ctx, StageLoad, func(ctx context.Context) error {
		var err error
		result, err = payroll.NewLoader(payroll.Options{
			CohortCommands:      p.cfg.Analysis.CohortCommands,
			AsOf:                asOf,
			ExecutiveRankPrefix: p.cfg.Analysis.ExecutiveRankPrefix,
		}, p.logger, p.telemetry.Metrics).Load(ctx, tables)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// stage runs fn inside a telemetry span and logs failures.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, end := p.telemetry.StartStage(ctx, name)
	err := fn(ctx)
	end(err)
	if err != nil {
		p.logger.ErrorContext(ctx, "Pipeline stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()))
	}
	return err
}
