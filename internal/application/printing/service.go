// Package printing builds the downloadable shopping list of a user's cart.
package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	infraprinting "github.com/foodgram/backend/internal/infrastructure/printing"
	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Painter serializes a laid out document
type Painter interface {
	Paint(doc infraprinting.Document, createdAt time.Time) ([]byte, error)
}

// ShoppingListService aggregates a cart and renders it as a PDF
type ShoppingListService struct {
	aggregator  recipe.ShoppingListAggregator
	painter     Painter
	siteAddress string
	location    *time.Location
	now         func() time.Time
	metrics     *telemetry.ShoppingListMetrics
}

// Option configures a ShoppingListService
type Option func(*ShoppingListService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *ShoppingListService) { s.now = now }
}

// WithLocation sets the zone the footer timestamp is printed in
func WithLocation(loc *time.Location) Option {
	return func(s *ShoppingListService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMetrics records downloads and render sizes
func WithMetrics(m *telemetry.ShoppingListMetrics) Option {
	return func(s *ShoppingListService) { s.metrics = m }
}

// NewShoppingListService creates a new shopping list service
func NewShoppingListService(aggregator recipe.ShoppingListAggregator, painter Painter, siteAddress string, opts ...Option) *ShoppingListService {
	s := &ShoppingListService{
		aggregator:  aggregator,
		painter:     painter,
		siteAddress: siteAddress,
		location:    time.UTC,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Download aggregates the user's cart and renders it. Aggregation failures
// are reported as recipe.ErrDataUnavailable and nothing is rendered.
func (s *ShoppingListService) Download(ctx context.Context, userID uuid.UUID) (file *ShoppingListFile, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shopping_list", "download",
		telemetry.SpanAttrUserID, userID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	rows, err := s.aggregator.ShoppingList(ctx, userID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.metrics.RecordDownload(ctx, telemetry.ResultDataUnavailable)
		logger.L(ctx).Error("Failed to aggregate shopping list",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", recipe.ErrDataUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generatedAt := s.now().In(s.location)
	start := time.Now()
	var (
		doc  infraprinting.Document
		data []byte
	)
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "shopping_list.render",
		telemetry.ProfilingLabelRegion:    "pdf",
	}, func(context.Context) {
		doc = infraprinting.Layout(rows, generatedAt, s.siteAddress)
		data, err = s.painter.Paint(doc, generatedAt)
	})
	if err != nil {
		s.metrics.RecordDownload(ctx, telemetry.ResultRenderFailed)
		var renderErr *infraprinting.RenderError
		if errors.As(err, &renderErr) {
			logger.L(ctx).Error("Failed to render shopping list",
				zap.String("code", renderErr.Code),
				zap.Error(err))
			return nil, err
		}
		return nil, infraprinting.NewRenderError(infraprinting.ErrCodeRenderFailed, "failed to render shopping list", err)
	}

	s.metrics.RecordDownload(ctx, telemetry.ResultSuccess)
	s.metrics.RecordRender(ctx, len(rows), len(doc.Pages), time.Since(start))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRows, len(rows),
		telemetry.SpanAttrPages, len(doc.Pages),
		telemetry.SpanAttrBytes, len(data),
	)
	logger.L(ctx).Info("Shopping list rendered",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(rows)),
		zap.Int("pages", len(doc.Pages)))

	return &ShoppingListFile{
		Filename:    ShoppingListFilename,
		ContentType: "application/pdf",
		Data:        data,
		Rows:        len(rows),
		Pages:       len(doc.Pages),
	}, nil
}
