package types

import (
	"time"

	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// PriceBar represents one trading day of OHLCV data for a single ticker.
type PriceBar struct {
	// Symbol is the ticker symbol of the bar
	Symbol string
	// Time is the trading day of the bar
	Time time.Time
	// Open is the opening price
	Open float64
	// High is the highest price
	High float64
	// Low is the lowest price
	Low float64
	// Close is the closing price
	Close float64
	// Volume is the traded volume
	Volume float64
}

// PriceSeries is a chronological sequence of PriceBar for one ticker.
// Dates are strictly increasing; gaps for non-trading days are permitted
// and never filled.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// NewPriceSeries builds a PriceSeries after checking the ordering invariant.
func NewPriceSeries(symbol string, bars []PriceBar) (*PriceSeries, error) {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeSeriesNotOrdered,
				"price series for %s is not strictly increasing at index %d (%s vs %s)",
				symbol, i, bars[i-1].Time.Format("2006-01-02"), bars[i].Time.Format("2006-01-02"))
		}
	}

	return &PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the closing prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}

	return out
}

// Highs returns the high prices in bar order.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}

	return out
}

// Lows returns the low prices in bar order.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}

	return out
}

// Volumes returns the traded volumes in bar order.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}

	return out
}

// Last returns the most recent bar. The second return value is false when
// the series is empty.
func (s *PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}

	return s.Bars[len(s.Bars)-1], true
}

// IndexOnOrAfter returns the index of the first bar dated on or after t,
// or -1 when no such bar exists.
func (s *PriceSeries) IndexOnOrAfter(t time.Time) int {
	for i, b := range s.Bars {
		if !b.Time.Before(t) {
			return i
		}
	}

	return -1
}

// BarOnOrAfter returns the first bar dated on or after t.
func (s *PriceSeries) BarOnOrAfter(t time.Time) (PriceBar, bool) {
	idx := s.IndexOnOrAfter(t)
	if idx < 0 {
		return PriceBar{}, false
	}

	return s.Bars[idx], true
}
