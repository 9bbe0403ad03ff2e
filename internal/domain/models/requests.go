package models

// Requests for the risk HTTP endpoints. Defined in domain for consistency and reuse.

type HistoricalVarRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required,ticker"`
	Lookback   int     `query:"lookback" json:"lookback" default:"365" validate:"gte=2,lte=10000"`
	Window     int     `query:"window" json:"window" default:"7" validate:"gte=1,lte=365"`
	Confidence float64 `query:"confidence" json:"confidence" default:"0.05" validate:"gt=0,lt=1"`
}

type MonteCarloVarRequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required,ticker"`
	Lookback    int     `query:"lookback" json:"lookback" default:"365" validate:"gte=2,lte=10000"`
	Periods     int     `query:"periods" json:"periods" default:"7" validate:"gte=1,lte=365"`
	Simulations int     `query:"simulations" json:"simulations" default:"10000" validate:"gte=1,lte=1000000"`
	Confidence  float64 `query:"confidence" json:"confidence" default:"0.05" validate:"gt=0,lt=1"`
	Seed        int64   `query:"seed" json:"seed" default:"0"`
}

type OptionPriceRequest struct {
	Symbol   string  `query:"symbol" json:"symbol" validate:"required,ticker"`
	Lookback int     `query:"lookback" json:"lookback" default:"365" validate:"gte=2,lte=10000"`
	Strike   float64 `query:"strike" json:"strike" validate:"required,gt=0"`
	Rate     float64 `query:"rate" json:"rate" default:"0.0001" validate:"gte=0"`
	// ExpiryMonths is converted to year fractions before pricing.
	ExpiryMonths int `query:"expiry_months" json:"expiry_months" default:"1" validate:"gte=1,lte=120"`
}

type GarchFitRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,ticker"`
	Lookback int    `query:"lookback" json:"lookback" default:"365" validate:"gte=2,lte=10000"`
	Window   int    `query:"window" json:"window" default:"7" validate:"gte=1,lte=365"`
	P        int    `query:"p" json:"p" default:"1" validate:"gte=0,lte=5"`
	Q        int    `query:"q" json:"q" default:"1" validate:"gte=0,lte=5"`
}

type WalkForwardRequest struct {
	Symbol     string  `query:"symbol" json:"symbol" validate:"required,ticker"`
	Lookback   int     `query:"lookback" json:"lookback" default:"365" validate:"gte=2,lte=10000"`
	Window     int     `query:"window" json:"window" default:"7" validate:"gte=1,lte=365"`
	P          int     `query:"p" json:"p" default:"1" validate:"gte=0,lte=5"`
	Q          int     `query:"q" json:"q" default:"1" validate:"gte=0,lte=5"`
	Confidence float64 `query:"confidence" json:"confidence" default:"0.05" validate:"gt=0,lt=1"`
}

type DailyClosesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,ticker"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"365" validate:"gte=0,lte=10000"`
}

// WalkForwardJobStatus reports an async walk-forward run.
type WalkForwardJobStatus struct {
	JobID  string             `json:"job_id"`
	Status string             `json:"status"` // "queued" | "running" | "done" | "failed"
	Error  string             `json:"error,omitempty"`
	Result *WalkForwardResult `json:"result,omitempty"`
}
