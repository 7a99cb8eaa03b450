package indicator

import (
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// weekTradingDays is the number of trading bars per calendar week.
const weekTradingDays = 5

// WeekRule implements the Williams week-rule breakout: a buy when the close
// exceeds the prior N-week high, a sell when it reaches the prior N-week low.
type WeekRule struct {
	weeks int
}

// NewWeekRule creates a week-rule indicator over the given number of weeks.
func NewWeekRule(weeks int) (*WeekRule, error) {
	if weeks <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "week_rule weeks must be positive, got %d", weeks)
	}

	return &WeekRule{weeks: weeks}, nil
}

// Name returns the indicator type.
func (w *WeekRule) Name() types.IndicatorType {
	return types.IndicatorTypeWeekRule
}

// Lookback returns the bars needed before the prior-week extremes exist.
func (w *WeekRule) Lookback() int {
	return w.weeks*weekTradingDays + 1
}

// Compute detects breakout bars. The rolling extremes are shifted one bar
// so the close is compared against the prior window, never its own bar.
func (w *WeekRule) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	window := w.weeks * weekTradingDays
	priorHigh := Shift(RollingMax(series.Highs(), window), 1)
	priorLow := Shift(RollingMin(series.Lows(), window), 1)
	closes := series.Closes()

	table := types.SignalTable{Indicator: w.Name()}

	for i := range closes {
		if anyNaN(priorHigh[i], priorLow[i]) {
			continue
		}

		switch {
		case closes[i] > priorHigh[i]:
			table.Signals = append(table.Signals, newSignal(w.Name(), series.Bars[i], types.SignalBuy))
		case closes[i] <= priorLow[i]:
			table.Signals = append(table.Signals, newSignal(w.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
