package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Shopping list download results
const (
	ResultSuccess         = "success"
	ResultDataUnavailable = "data_unavailable"
	ResultRenderFailed    = "render_failed"
)

// ShoppingListMetrics records shopping list downloads.
type ShoppingListMetrics struct {
	downloads      metric.Int64Counter
	rows           metric.Int64Histogram
	pages          metric.Int64Histogram
	renderDuration metric.Float64Histogram
}

// NewShoppingListMetrics creates the instruments on meter.
func NewShoppingListMetrics(meter metric.Meter) (*ShoppingListMetrics, error) {
	downloads, err := meter.Int64Counter("shopping_list.downloads",
		metric.WithDescription("Shopping list downloads by result"),
		metric.WithUnit("{download}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create downloads counter: %w", err)
	}
	rows, err := meter.Int64Histogram("shopping_list.rows",
		metric.WithDescription("Aggregated rows per shopping list"),
		metric.WithUnit("{row}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows histogram: %w", err)
	}
	pages, err := meter.Int64Histogram("shopping_list.pages",
		metric.WithDescription("Pages per rendered shopping list"),
		metric.WithUnit("{page}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pages histogram: %w", err)
	}
	renderDuration, err := meter.Float64Histogram("shopping_list.render.duration",
		metric.WithDescription("Time spent rendering the PDF"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create render duration histogram: %w", err)
	}
	return &ShoppingListMetrics{
		downloads:      downloads,
		rows:           rows,
		pages:          pages,
		renderDuration: renderDuration,
	}, nil
}

// RecordDownload counts one download attempt with its result.
func (m *ShoppingListMetrics) RecordDownload(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.downloads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordRender records the size of a rendered list and how long it took.
func (m *ShoppingListMetrics) RecordRender(ctx context.Context, rows, pages int, took time.Duration) {
	if m == nil {
		return
	}
	m.rows.Record(ctx, int64(rows))
	m.pages.Record(ctx, int64(pages))
	m.renderDuration.Record(ctx, took.Seconds())
}
