package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/foodgram/backend/internal/infrastructure/logger"
	infraprinting "github.com/foodgram/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockAggregator is a mock implementation of recipe.ShoppingListAggregator
type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) ShoppingList(ctx context.Context, userID uuid.UUID) ([]recipe.ShoppingListRow, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]recipe.ShoppingListRow)
	return rows, args.Error(1)
}

// capturePainter keeps the document it was asked to paint
type capturePainter struct {
	doc       infraprinting.Document
	createdAt time.Time
	err       error
}

func (p *capturePainter) Paint(doc infraprinting.Document, createdAt time.Time) ([]byte, error) {
	p.doc = doc
	p.createdAt = createdAt
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-fake"), nil
}

var fixedNow = time.Date(2024, 3, 5, 6, 7, 3, 0, time.UTC)

func TestShoppingListService_Download(t *testing.T) {
	userID := uuid.New()
	rows := []recipe.ShoppingListRow{
		{IngredientName: "flour", Unit: "g", TotalAmount: 500},
		{IngredientName: "sugar", Unit: "g", TotalAmount: 50},
	}

	t.Run("renders rows with injected clock and zone", func(t *testing.T) {
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Return(rows, nil)
		painter := &capturePainter{}
		svc := NewShoppingListService(agg, painter, "https://foodgram.example",
			WithClock(func() time.Time { return fixedNow }),
			WithLocation(time.FixedZone("MSK", 3*60*60)),
		)

		file, err := svc.Download(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "shopping-list.pdf", file.Filename)
		assert.Equal(t, "application/pdf", file.ContentType)
		assert.Equal(t, 2, file.Rows)
		assert.Equal(t, 1, file.Pages)

		lines := painter.doc.Lines()
		assert.Contains(t, lines, "1. flour, 500 g.")
		assert.Contains(t, lines, "2. sugar, 50 g.")
		assert.Contains(t, lines, "Адрес сайта: https://foodgram.example")
		assert.Contains(t, lines, "Дата и время скачивания: 2024-03-05 09:07:03")
		assert.True(t, painter.createdAt.Equal(fixedNow))
	})

	t.Run("produces a real pdf", func(t *testing.T) {
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Return([]recipe.ShoppingListRow{}, nil)
		svc := NewShoppingListService(agg, infraprinting.NewShoppingListRenderer(), "https://foodgram.example")

		file, err := svc.Download(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
		assert.Equal(t, 0, file.Rows)
		assert.Equal(t, 1, file.Pages)
	})

	t.Run("aggregation failure never renders", func(t *testing.T) {
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Return(nil, errors.New("connection refused"))
		painter := &capturePainter{}

		core, logs := observer.New(zapcore.ErrorLevel)
		ctx := logger.WithContext(context.Background(), zap.New(core))

		svc := NewShoppingListService(agg, painter, "site")
		file, err := svc.Download(ctx, userID)
		assert.Nil(t, file)
		assert.ErrorIs(t, err, recipe.ErrDataUnavailable)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "DATA_UNAVAILABLE", de.Code)
		assert.Empty(t, painter.doc.Pages)
		assert.Equal(t, 1, logs.FilterMessage("Failed to aggregate shopping list").Len())
	})

	t.Run("missing font is a resource error", func(t *testing.T) {
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Return(rows, nil)
		svc := NewShoppingListService(agg, infraprinting.NewShoppingListRenderer(infraprinting.WithFont(nil)), "site")

		file, err := svc.Download(context.Background(), userID)
		assert.Nil(t, file)
		var renderErr *infraprinting.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, infraprinting.ErrCodeResourceMissing, renderErr.Code)
	})

	t.Run("unexpected paint failure", func(t *testing.T) {
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Return(rows, nil)
		svc := NewShoppingListService(agg, &capturePainter{err: errors.New("disk full")}, "site")

		_, err := svc.Download(context.Background(), userID)
		var renderErr *infraprinting.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, infraprinting.ErrCodeRenderFailed, renderErr.Code)
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("cancelled request stops before rendering", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).Run(func(mock.Arguments) { cancel() }).Return(rows, nil)
		painter := &capturePainter{}

		_, err := NewShoppingListService(agg, painter, "site").Download(ctx, userID)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, painter.doc.Pages)
	})

	t.Run("query cancelled by disconnect is not data unavailable", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		agg := new(MockAggregator)
		agg.On("ShoppingList", mock.Anything, userID).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, fmt.Errorf("query: %w", context.Canceled))

		_, err := NewShoppingListService(agg, &capturePainter{}, "site").Download(ctx, userID)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, recipe.ErrDataUnavailable)
	})
}
