package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	domrisk "ComRisk/internal/domain/risk"
)

// BlackScholes prices vanilla European options. Stateless; every method is
// a pure function of its inputs.
type BlackScholes struct{}

// NewBlackScholes creates a Black-Scholes pricer.
func NewBlackScholes() *BlackScholes { return &BlackScholes{} }

func validate(spot, strike, sigma, expiry float64, rate float64) error {
	switch {
	case spot <= 0:
		return domrisk.NewParamError("spot", spot)
	case strike <= 0:
		return domrisk.NewParamError("strike", strike)
	case sigma <= 0:
		return domrisk.NewParamError("sigma", sigma)
	case expiry <= 0:
		return domrisk.NewParamError("expiry", expiry)
	case rate < 0:
		return domrisk.NewParamError("rate", rate)
	}
	return nil
}

// Call prices a call:
//
//	d1 = (ln(S/K) + (r + sigma^2/2)T) / (sigma sqrt(T))
//	d2 = d1 - sigma sqrt(T)
//	C  = S*Phi(d1) - K*exp(-rT)*Phi(d2)
func (bs *BlackScholes) Call(spot, strike, sigma, rate, expiry float64) (float64, error) {
	if err := validate(spot, strike, sigma, expiry, rate); err != nil {
		return 0, err
	}
	sqrtT := math.Sqrt(expiry)
	d1 := (math.Log(spot/strike) + expiry*(rate+0.5*sigma*sigma)) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discount := math.Exp(-rate * expiry)
	return spot*distuv.UnitNormal.CDF(d1) - strike*discount*distuv.UnitNormal.CDF(d2), nil
}

// Put prices a put through put-call parity: P = C - S + K*exp(-rT).
func (bs *BlackScholes) Put(spot, strike, sigma, rate, expiry float64) (float64, error) {
	call, err := bs.Call(spot, strike, sigma, rate, expiry)
	if err != nil {
		return 0, err
	}
	return call - spot + strike*math.Exp(-rate*expiry), nil
}
