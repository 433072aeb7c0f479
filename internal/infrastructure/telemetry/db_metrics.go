package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StatsSource reports connection pool statistics.
type StatsSource interface {
	Stats() sql.DBStats
}

// RegisterDBPoolMetrics observes the pool of src on every collection.
// The returned registration must be unregistered on shutdown.
func RegisterDBPoolMetrics(meter metric.Meter, src StatsSource) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("db.client.connections.usage",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connections gauge: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db.client.connections.max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create max connections gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db.client.connections.wait_count",
		metric.WithDescription("Total connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wait counter: %w", err)
	}

	idle := metric.WithAttributes(attribute.String("state", "idle"))
	used := metric.WithAttributes(attribute.String("state", "used"))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := src.Stats()
		o.ObserveInt64(conns, int64(stats.Idle), idle)
		o.ObserveInt64(conns, int64(stats.InUse), used)
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxOpen, waits)
}
