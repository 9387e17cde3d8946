package infrastructure

import (
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a pipeline run.
type PipelineMetrics struct {
	RowsRead      metric.Int64Counter
	RowsDropped   metric.Int64Counter
	RecordsLoaded metric.Int64Counter
	EmptyGroups   metric.Int64Counter
	StageDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"payroll_rows_read_total",
		metric.WithDescription("Total number of payroll rows read from sources"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"payroll_rows_dropped_total",
		metric.WithDescription("Total number of payroll rows dropped, by reason"),
	)
	if err != nil {
		return nil, err
	}

	recordsLoaded, err := meter.Int64Counter(
		"payroll_records_loaded_total",
		metric.WithDescription("Total number of normalized payroll records"),
	)
	if err != nil {
		return nil, err
	}

	emptyGroups, err := meter.Int64Counter(
		"report_empty_groups_total",
		metric.WithDescription("Total number of report groups with no records"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsRead:      rowsRead,
		RowsDropped:   rowsDropped,
		RecordsLoaded: recordsLoaded,
		EmptyGroups:   emptyGroups,
		StageDuration: stageDuration,
	}, nil
}
