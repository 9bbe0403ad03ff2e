package usecase

import (
	"context"
	"fmt"
	"time"

	"ComRisk/internal/domain/models"
	domrepo "ComRisk/internal/domain/repository"
	"ComRisk/pkg/util"
)

// PricesUseCase provides business logic for retrieving daily closes.
type PricesUseCase struct {
	store domrepo.PriceStore
}

func NewPricesUseCase(store domrepo.PriceStore) *PricesUseCase {
	return &PricesUseCase{store: store}
}

type GetClosesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetClosesResult struct {
	Symbol string
	From   time.Time
	To     time.Time
	Count  int
	Closes []models.PricePoint
}

func (uc *PricesUseCase) GetDailyCloses(ctx context.Context, p GetClosesParams) (*GetClosesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = domrepo.DefaultLookback
	}
	if p.Limit > domrepo.MaxLookback {
		p.Limit = domrepo.MaxLookback
	}
	p.From, p.To = util.AlignFromTo(p.From, p.To, "1d")

	closes, err := uc.store.GetDailyCloses(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("get daily closes: %w", err)
	}
	if len(closes) > p.Limit {
		closes = closes[len(closes)-p.Limit:]
	}

	return &GetClosesResult{
		Symbol: p.Symbol,
		From:   p.From,
		To:     p.To,
		Count:  len(closes),
		Closes: closes,
	}, nil
}
