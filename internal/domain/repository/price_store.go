package repository

import (
	"context"
	"time"

	"ComRisk/internal/domain/models"
)

// PriceStore provides read-only access to daily closes for the risk estimators.
// Implementations must return points in ascending date order with positive closes.
type PriceStore interface {
	GetDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error)
	GetLatestNDailyCloses(ctx context.Context, symbol string, n int) ([]models.PricePoint, error)
}

// PriceWriter persists daily closes fetched from an external history source.
type PriceWriter interface {
	InsertDailyCloses(ctx context.Context, symbol string, points []models.PricePoint) error
}

const (
	// DefaultLookback is the number of daily closes pulled when the caller
	// does not say otherwise.
	DefaultLookback = 365
	// MaxLookback caps a single estimator query.
	MaxLookback = 10000
)

// ClampLookback normalizes a requested lookback to the supported range.
func ClampLookback(n int) int {
	if n <= 0 {
		return DefaultLookback
	}
	if n > MaxLookback {
		return MaxLookback
	}
	return n
}
