package indicator

import (
	"math"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// RSI flags oversold and overbought bars using Wilder-smoothed average
// gains and losses.
type RSI struct {
	period int
	lower  float64
	upper  float64
}

// NewRSI creates an RSI indicator with oversold/overbought thresholds.
func NewRSI(period int, lower, upper float64) (*RSI, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "rsi period must be positive, got %d", period)
	}

	if lower >= upper {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold, "rsi lower threshold %f must be below upper %f", lower, upper)
	}

	return &RSI{period: period, lower: lower, upper: upper}, nil
}

// Name returns the indicator type.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Lookback returns the bars needed before the smoothed averages settle.
func (r *RSI) Lookback() int {
	return r.period + 1
}

// Values returns the RSI series. Averages start as expanding means and
// switch to Wilder smoothing (avg = (prev*(n-1)+cur)/n) from the period
// index onward.
func (r *RSI) Values(series *types.PriceSeries) []float64 {
	closes := series.Closes()
	out := make([]float64, len(closes))

	for i := range out {
		out[i] = math.NaN()
	}

	if len(closes) < 2 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))

	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	avgGain := make([]float64, len(closes))
	avgLoss := make([]float64, len(closes))

	// Expanding mean seeds the smoothing until a full period is available.
	gainSum, lossSum := 0.0, 0.0

	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]

		if i < r.period {
			avgGain[i] = gainSum / float64(i+1)
			avgLoss[i] = lossSum / float64(i+1)
		} else {
			n := float64(r.period)
			avgGain[i] = (avgGain[i-1]*(n-1) + gains[i]) / n
			avgLoss[i] = (avgLoss[i-1]*(n-1) + losses[i]) / n
		}

		if avgGain[i] == 0 && avgLoss[i] == 0 {
			out[i] = math.NaN()
		} else if avgLoss[i] == 0 {
			out[i] = 100
		} else {
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - (100 / (1 + rs))
		}
	}

	return out
}

// Compute flags bars where the RSI is below the lower threshold (buy) or
// above the upper threshold (sell).
func (r *RSI) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	values := r.Values(series)

	table := types.SignalTable{Indicator: r.Name()}

	for i := range values {
		if math.IsNaN(values[i]) {
			continue
		}

		switch {
		case values[i] < r.lower:
			table.Signals = append(table.Signals, newSignal(r.Name(), series.Bars[i], types.SignalBuy))
		case values[i] > r.upper:
			table.Signals = append(table.Signals, newSignal(r.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
