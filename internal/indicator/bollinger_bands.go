package indicator

import (
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// BollingerBands detects the close touching either band around an SMA.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a Bollinger Bands indicator.
func NewBollingerBands(period int, stdDev float64) (*BollingerBands, error) {
	if period <= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "bollinger period must be above 1, got %d", period)
	}

	if stdDev <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "bollinger std dev multiplier must be positive, got %f", stdDev)
	}

	return &BollingerBands{period: period, stdDev: stdDev}, nil
}

// Name returns the indicator type.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Lookback returns the bars needed before the bands are defined.
func (b *BollingerBands) Lookback() int {
	return b.period
}

// Compute detects band touches. A buy fires when the close reaches the
// lower band while the previous close was still above the previous lower
// band; a sell mirrors this on the upper band.
func (b *BollingerBands) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	closes := series.Closes()
	middle := SimpleMovingAverage(closes, b.period)
	std := RollingStd(closes, b.period)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))

	for i := range closes {
		upper[i] = middle[i] + b.stdDev*std[i]
		lower[i] = middle[i] - b.stdDev*std[i]
	}

	table := types.SignalTable{Indicator: b.Name()}

	for i := 1; i < len(closes); i++ {
		if anyNaN(upper[i-1], lower[i-1], upper[i], lower[i]) {
			continue
		}

		switch {
		case closes[i] <= lower[i] && closes[i-1] > lower[i-1]:
			table.Signals = append(table.Signals, newSignal(b.Name(), series.Bars[i], types.SignalBuy))
		case closes[i] >= upper[i] && closes[i-1] < upper[i-1]:
			table.Signals = append(table.Signals, newSignal(b.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
