package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "ComRisk/internal/domain/repository"
	"ComRisk/internal/service/marketdata"
	applogger "ComRisk/pkg/logger"
)

// Backfiller seeds the daily-closes table over REST so the estimators have a
// full lookback before the tick feed has accumulated one on its own.
type Backfiller struct {
	fetcher  *marketdata.HistoryFetcher
	writer   domrepo.PriceWriter
	lookback int
	l        *applogger.Logger
}

func NewBackfiller(fetcher *marketdata.HistoryFetcher, writer domrepo.PriceWriter, lookbackDays int, l *applogger.Logger) *Backfiller {
	if lookbackDays <= 0 {
		lookbackDays = domrepo.DefaultLookback
	}
	return &Backfiller{fetcher: fetcher, writer: writer, lookback: lookbackDays, l: l}
}

// Run backfills every symbol. A symbol failure is logged and skipped so one
// bad instrument does not block the rest.
func (b *Backfiller) Run(ctx context.Context, symbols []string) error {
	to := time.Now()
	from := to.AddDate(0, 0, -b.lookback)

	var failed int
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.backfillSymbol(ctx, sym, from, to); err != nil {
			failed++
			b.l.Error("backfill failed", applogger.String("symbol", sym), applogger.Error(err))
		}
	}
	if failed == len(symbols) && len(symbols) > 0 {
		return fmt.Errorf("backfill failed for all %d symbols", len(symbols))
	}
	return nil
}

func (b *Backfiller) backfillSymbol(ctx context.Context, symbol string, from, to time.Time) error {
	start := time.Now()
	points, err := b.fetcher.DailyCloses(ctx, symbol, from, to)
	if err != nil {
		return err
	}
	if err := b.writer.InsertDailyCloses(ctx, symbol, points); err != nil {
		return err
	}
	b.l.Info("backfill done",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(points)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
