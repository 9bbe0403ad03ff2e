package usecase

import (
	"context"
	"testing"
	"time"
)

func TestGetDailyClosesTruncatesToLimit(t *testing.T) {
	points := constantReturnPrices(30, 100, 0.01)
	uc := NewPricesUseCase(&fakePriceStore{points: points})

	res, err := uc.GetDailyCloses(context.Background(), GetClosesParams{
		Symbol: "CL=F",
		From:   points[0].Date,
		To:     points[len(points)-1].Date,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 10 || len(res.Closes) != 10 {
		t.Fatalf("count = %d, want 10", res.Count)
	}
	// truncation keeps the most recent closes
	if !res.Closes[9].Date.Equal(points[29].Date) {
		t.Fatalf("last close date = %v, want %v", res.Closes[9].Date, points[29].Date)
	}
}

func TestGetDailyClosesDefaultLimit(t *testing.T) {
	points := constantReturnPrices(5, 100, 0.01)
	uc := NewPricesUseCase(&fakePriceStore{points: points})

	res, err := uc.GetDailyCloses(context.Background(), GetClosesParams{
		Symbol: "CL=F",
		From:   points[0].Date,
		To:     points[len(points)-1].Date,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 5 {
		t.Fatalf("count = %d, want 5", res.Count)
	}
}

func TestGetDailyClosesRejectsBadParams(t *testing.T) {
	uc := NewPricesUseCase(&fakePriceStore{})

	if _, err := uc.GetDailyCloses(context.Background(), GetClosesParams{Symbol: ""}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}

	now := time.Now()
	_, err := uc.GetDailyCloses(context.Background(), GetClosesParams{
		Symbol: "CL=F",
		From:   now,
		To:     now.AddDate(0, 0, -1),
	})
	if err == nil {
		t.Fatalf("expected error for from > to")
	}
}
