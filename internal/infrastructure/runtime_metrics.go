package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeStats is a snapshot of the Go runtime used by the health endpoint
type RuntimeStats struct {
	GoVersion     string  `json:"go_version"`
	Goroutines    int     `json:"goroutines"`
	HeapBytes     uint64  `json:"heap_bytes"`
	SysBytes      uint64  `json:"sys_bytes"`
	GCCount       uint32  `json:"gc_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadRuntimeStats collects runtime statistics. ReadMemStats stops the world
// briefly; call it per request, never in a tight loop.
func ReadRuntimeStats(startTime time.Time) RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		HeapBytes:     mem.HeapAlloc,
		SysBytes:      mem.Sys,
		GCCount:       mem.NumGC,
		UptimeSeconds: time.Since(startTime).Seconds(),
	}
}

// RegisterRuntimeMetrics exposes goroutine, heap and uptime gauges that are
// sampled whenever the meter is collected
func RegisterRuntimeMetrics(meter metric.Meter, startTime time.Time) error {
	goroutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return err
	}

	heap, err := meter.Int64ObservableGauge(
		"system_memory_heap_bytes",
		metric.WithDescription("Heap memory in use in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return err
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := ReadRuntimeStats(startTime)
		o.ObserveInt64(goroutines, int64(stats.Goroutines))
		o.ObserveInt64(heap, int64(stats.HeapBytes))
		o.ObserveFloat64(uptime, stats.UptimeSeconds)
		return nil
	}, goroutines, heap, uptime)
	return err
}
