package infrastructure

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SystemMetrics records Go runtime state at the end of each pipeline stage.
type SystemMetrics struct {
	goRoutines      metric.Int64Gauge
	memoryAllocated metric.Int64Gauge
	memorySystem    metric.Int64Gauge
	gcCount         metric.Int64Gauge
}

// NewSystemMetrics creates the runtime gauges on meter.
func NewSystemMetrics(meter metric.Meter) (*SystemMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"pipeline_goroutines",
		metric.WithDescription("Number of goroutines when a stage finished"),
	)
	if err != nil {
		return nil, err
	}

	memoryAllocated, err := meter.Int64Gauge(
		"pipeline_heap_alloc",
		metric.WithDescription("Heap bytes allocated when a stage finished"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"pipeline_memory_sys",
		metric.WithDescription("Bytes obtained from the OS when a stage finished"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"pipeline_gc_cycles",
		metric.WithDescription("Completed GC cycles when a stage finished"),
	)
	if err != nil {
		return nil, err
	}

	return &SystemMetrics{
		goRoutines:      goRoutines,
		memoryAllocated: memoryAllocated,
		memorySystem:    memorySystem,
		gcCount:         gcCount,
	}, nil
}

// RecordStage samples the runtime and records it under stage.
func (sm *SystemMetrics) RecordStage(ctx context.Context, stage string) SystemStats {
	stats := ReadSystemStats()
	attrs := metric.WithAttributes(attribute.String("stage", stage))

	sm.goRoutines.Record(ctx, stats.GoRoutines, attrs)
	sm.memoryAllocated.Record(ctx, int64(stats.HeapAlloc), attrs)
	sm.memorySystem.Record(ctx, int64(stats.Sys), attrs)
	sm.gcCount.Record(ctx, int64(stats.NumGC), attrs)
	return stats
}

// SystemStats is a runtime snapshot.
type SystemStats struct {
	GoRoutines int64
	HeapAlloc  uint64
	Sys        uint64
	NumGC      uint32
}

// ReadSystemStats takes a runtime snapshot.
func ReadSystemStats() SystemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemStats{
		GoRoutines: int64(runtime.NumGoroutine()),
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}
