package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/statlabs/pairscreen/internal/utils"
)

// PricePoint represents a single observed price for a symbol as delivered
// by upstream market data feeds.
type PricePoint struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// PriceSeries is the ordered price history of one symbol. Prices and
// Timestamps always have equal length and timestamps strictly increase;
// both invariants are enforced at construction so the statistical
// components can assume them without re-checking.
type PriceSeries struct {
	Symbol     string      `json:"symbol"`
	Prices     []float64   `json:"prices"`
	Timestamps []time.Time `json:"timestamps"`
}

// NewPriceSeries validates the series invariants and builds a PriceSeries.
func NewPriceSeries(symbol string, prices []float64, timestamps []time.Time) (*PriceSeries, error) {
	if symbol == "" {
		return nil, utils.NewValidationError("symbol", "must not be empty")
	}
	if len(prices) == 0 {
		return nil, utils.NewValidationError("prices", "must contain at least one observation")
	}
	if len(prices) != len(timestamps) {
		return nil, utils.NewValidationErrorf("timestamps", "length %d does not match %d prices", len(timestamps), len(prices))
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, utils.NewValidationErrorf("timestamps", "not strictly increasing at index %d", i)
		}
	}
	return &PriceSeries{
		Symbol:     symbol,
		Prices:     prices,
		Timestamps: timestamps,
	}, nil
}

// NewPriceSeriesFromPoints converts upstream decimal price records into a
// float64 series. Points must already be ordered by observation time.
func NewPriceSeriesFromPoints(symbol string, points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, utils.NewValidationError("points", "must contain at least one observation")
	}
	prices := make([]float64, len(points))
	timestamps := make([]time.Time, len(points))
	for i, p := range points {
		prices[i], _ = p.Price.Float64()
		timestamps[i] = p.Timestamp
	}
	return NewPriceSeries(symbol, prices, timestamps)
}

// Len returns the number of observations in the series.
func (s *PriceSeries) Len() int {
	return len(s.Prices)
}

// TailPrices returns a copy of the most recent n prices, or all prices when
// fewer than n are available.
func (s *PriceSeries) TailPrices(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n > len(s.Prices) {
		n = len(s.Prices)
	}
	out := make([]float64, n)
	copy(out, s.Prices[len(s.Prices)-n:])
	return out
}
