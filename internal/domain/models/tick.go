package models

import "time"

// Tick is a single traded price observation for a commodity symbol.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// PricePoint is a daily close used by the risk estimators.
type PricePoint struct {
	Date   time.Time
	Symbol string
	Close  float64
}

// LogReturn is a one-period log return tagged with the earlier observation's date.
type LogReturn struct {
	Date  time.Time
	Value float64
}
