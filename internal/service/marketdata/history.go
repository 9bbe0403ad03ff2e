package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ComRisk/internal/domain/models"
	xhttp "ComRisk/pkg/http"
)

// HistoryFetcher pulls daily candles over REST. Used to backfill the price
// store when the tick feed has not been running long enough for an
// estimator lookback.
type HistoryFetcher struct {
	client  *xhttp.Client
	baseURL string
	apiKey  string
}

// NewHistoryFetcher creates a REST history client.
func NewHistoryFetcher(baseURL, apiKey string, timeout time.Duration) *HistoryFetcher {
	return &HistoryFetcher{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetry(2, time.Second)),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type candleResponse struct {
	Status string    `json:"s"`
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"`
}

// DailyCloses fetches daily closes for symbol between from and to, ascending.
func (f *HistoryFetcher) DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	var resp candleResponse
	err := f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    f.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {f.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s: %w", symbol, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("candle response status %q for %s", resp.Status, symbol)
	}
	if len(resp.Close) != len(resp.Time) {
		return nil, fmt.Errorf("candle response misaligned: %d closes, %d timestamps", len(resp.Close), len(resp.Time))
	}

	out := make([]models.PricePoint, 0, len(resp.Close))
	for i, c := range resp.Close {
		out = append(out, models.PricePoint{
			Date:   time.Unix(resp.Time[i], 0).UTC(),
			Symbol: symbol,
			Close:  c,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
