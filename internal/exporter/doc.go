// Package exporter renders analysis results into the three report tables and
// writes them out.
//
// ReportBuilder produces the per-command summary, the rank and years-on-force
// comparison, and the pay-change comparison. Groups with no records are
// handled by an explicit EmptyGroupPolicy: placeholder rows keep the officer
// count and leave the averages blank, omit drops the row. Each empty group is
// logged at WARN and counted.
//
// CSVWriter and XLSXWriter implement files.TableWriter:
//
//	w, err := exporter.NewWriter(cfg.Output, paths, logger)
//	reports := exporter.NewReportBuilder(opts, logger, metrics).Build(ctx, summary, payChange)
//	locations, err := exporter.WriteReports(ctx, w, reports)
package exporter
