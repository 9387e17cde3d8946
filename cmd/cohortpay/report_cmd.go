package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"cohortpay/internal/config"
	"cohortpay/internal/exporter"
	"cohortpay/internal/infrastructure"
	"cohortpay/internal/payroll"
	"cohortpay/internal/pipeline"
)

type reportOutput struct {
	Command    string         `json:"command"`
	RunID      string         `json:"run_id"`
	DurationMS int64          `json:"duration_ms"`
	Sources    []string       `json:"sources"`
	TargetYear int            `json:"target_year"`
	RowsRead   int            `json:"rows_read"`
	Records    int            `json:"records"`
	Dropped    map[string]int `json:"dropped"`
	Reports    []string       `json:"reports"`
}

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		outDir         string
		format         string
		targetYear     int
		leavePolicy    string
		payLeavePolicy string
		emptyGroups    string
		metricsFile    string
		traceFile      string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the commands, rankyear and pay reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			e, err := root.setup(cmd, func(cfg *config.Config) {
				if flags.Changed("out") {
					cfg.Output.Dir = outDir
				}
				if flags.Changed("format") {
					cfg.Output.Format = format
				}
				if flags.Changed("target-year") {
					cfg.Analysis.TargetYear = targetYear
				}
				if flags.Changed("leave-policy") {
					cfg.Analysis.LeavePolicy = leavePolicy
				}
				if flags.Changed("pay-leave-policy") {
					cfg.Analysis.PayLeavePolicy = payLeavePolicy
				}
				if flags.Changed("empty-groups") {
					cfg.Analysis.EmptyGroups = emptyGroups
				}
				if flags.Changed("metrics-file") {
					cfg.Telemetry.MetricsFile = metricsFile
				}
				if flags.Changed("trace-file") {
					cfg.Telemetry.TraceFile = traceFile
				}
			})
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			tel, err := infrastructure.InitializeTelemetry(e.cfg.Telemetry, e.logger)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tel.Shutdown(shutdownCtx); err != nil {
					e.logger.ErrorContext(e.ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
				}
			}()

			sources, err := pipeline.ResolveSources(e.cfg, e.paths)
			if err != nil {
				return err
			}
			writer, err := exporter.NewWriter(e.cfg.Output, e.paths, e.logger)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := pipeline.New(e.cfg, e.reader(), writer, tel, e.logger).Run(e.ctx, sources)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), reportOutput{
				Command:    "report",
				RunID:      res.RunID,
				DurationMS: time.Since(start).Milliseconds(),
				Sources:    res.Sources,
				TargetYear: res.Summary.TargetYear,
				RowsRead:   res.Load.RowsRead,
				Records:    len(res.Load.Records),
				Dropped:    droppedCounts(res.Load),
				Reports:    res.Locations,
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the report files")
	cmd.Flags().StringVar(&format, "format", "csv", "Report format (csv, xlsx)")
	cmd.Flags().IntVar(&targetYear, "target-year", 0, "Fiscal year to report on (0 = most recent in the data)")
	cmd.Flags().StringVar(&leavePolicy, "leave-policy", "all", "Records used for aggregates (all, active)")
	cmd.Flags().StringVar(&payLeavePolicy, "pay-leave-policy", "all", "Records used for pay change (all, active)")
	cmd.Flags().StringVar(&emptyGroups, "empty-groups", "placeholder", "Rendering of groups with no records (placeholder, omit)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "Write stage spans as JSON to this file")
	return cmd
}

func droppedCounts(res *payroll.LoadResult) map[string]int {
	out := make(map[string]int, len(res.Dropped))
	for reason, n := range res.Dropped {
		out[string(reason)] = n
	}
	return out
}
