package pricing

import (
	"errors"
	"math"
	"testing"

	domrisk "ComRisk/internal/domain/risk"
)

func TestCallKnownValue(t *testing.T) {
	bs := NewBlackScholes()
	// At-the-money one-year call, sigma 20%, rate 5%. Reference value from
	// the closed-form solution.
	got, err := bs.Call(100, 100, 0.2, 0.05, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-10.4506) > 1e-3 {
		t.Fatalf("call: got %v want 10.4506", got)
	}
}

func TestPutCallParity(t *testing.T) {
	bs := NewBlackScholes()
	spot, strike, sigma, rate, expiry := 95.0, 105.0, 0.35, 0.03, 0.5

	call, err := bs.Call(spot, strike, sigma, rate, expiry)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	put, err := bs.Put(spot, strike, sigma, rate, expiry)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	lhs := call - put
	rhs := spot - strike*math.Exp(-rate*expiry)
	if math.Abs(lhs-rhs) > 1e-9 {
		t.Fatalf("parity violated: C-P=%v, S-K*e^-rT=%v", lhs, rhs)
	}
}

func TestDeepInTheMoneyBounds(t *testing.T) {
	bs := NewBlackScholes()
	call, err := bs.Call(200, 100, 0.2, 0.05, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	intrinsic := 200 - 100*math.Exp(-0.05)
	if call < intrinsic {
		t.Fatalf("call %v below discounted intrinsic %v", call, intrinsic)
	}
	if call > 200 {
		t.Fatalf("call %v above spot", call)
	}
}

func TestRejectsBadInputs(t *testing.T) {
	bs := NewBlackScholes()
	cases := []struct {
		name                             string
		spot, strike, sigma, rate, expiry float64
	}{
		{"zero spot", 0, 100, 0.2, 0.05, 1},
		{"zero strike", 100, 0, 0.2, 0.05, 1},
		{"zero sigma", 100, 100, 0, 0.05, 1},
		{"zero expiry", 100, 100, 0.2, 0.05, 0},
		{"negative expiry", 100, 100, 0.2, 0.05, -1},
		{"negative rate", 100, 100, 0.2, -0.01, 1},
	}
	for _, c := range cases {
		got, err := bs.Call(c.spot, c.strike, c.sigma, c.rate, c.expiry)
		if !errors.Is(err, domrisk.ErrInvalidParameter) {
			t.Fatalf("%s: expected ErrInvalidParameter, got %v", c.name, err)
		}
		if math.IsNaN(got) {
			t.Fatalf("%s: price must never be NaN", c.name)
		}
		if _, err := bs.Put(c.spot, c.strike, c.sigma, c.rate, c.expiry); !errors.Is(err, domrisk.ErrInvalidParameter) {
			t.Fatalf("%s (put): expected ErrInvalidParameter, got %v", c.name, err)
		}
	}
}
