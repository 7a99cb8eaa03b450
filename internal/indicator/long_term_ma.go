package indicator

import (
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// LongTermMA detects the close crossing a single long-period average.
type LongTermMA struct {
	period int
	avg    AverageType
}

// NewLongTermMA creates a long-term MA indicator.
func NewLongTermMA(period int, avg AverageType) (*LongTermMA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "long_term_ma period must be positive, got %d", period)
	}

	return &LongTermMA{period: period, avg: avg}, nil
}

// Name returns the indicator type.
func (l *LongTermMA) Name() types.IndicatorType {
	return types.IndicatorTypeLongTermMA
}

// Lookback returns the bars needed before the average is defined.
func (l *LongTermMA) Lookback() int {
	return l.period
}

// Compute detects the bars where the close crosses the average, comparing
// against the previous bar's close and average.
func (l *LongTermMA) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	closes := series.Closes()
	ma := MovingAverage(closes, l.period, l.avg)

	table := types.SignalTable{Indicator: l.Name()}

	for i := 1; i < len(closes); i++ {
		if anyNaN(ma[i-1], ma[i]) {
			continue
		}

		switch {
		case closes[i-1] <= ma[i-1] && closes[i] > ma[i]:
			table.Signals = append(table.Signals, newSignal(l.Name(), series.Bars[i], types.SignalBuy))
		case closes[i-1] >= ma[i-1] && closes[i] < ma[i]:
			table.Signals = append(table.Signals, newSignal(l.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
