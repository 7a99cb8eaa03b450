package indicator

import (
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// MACross detects crossings of a short moving average over a long one.
type MACross struct {
	short int
	long  int
	avg   AverageType
}

// NewMACross creates an MA cross indicator.
func NewMACross(short, long int, avg AverageType) (*MACross, error) {
	if short <= 0 || long <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ma_cross periods must be positive, got short=%d long=%d", short, long)
	}

	if short >= long {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "ma_cross short window %d must be below long window %d", short, long)
	}

	return &MACross{short: short, long: long, avg: avg}, nil
}

// Name returns the indicator type.
func (m *MACross) Name() types.IndicatorType {
	return types.IndicatorTypeMACross
}

// Lookback returns the bars needed before the long average is defined.
func (m *MACross) Lookback() int {
	return m.long
}

// Compute detects the bars where the short average crosses the long one.
// The comparison uses the previous bar's values so the signal fires on the
// bar where the cross is confirmed.
func (m *MACross) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	closes := series.Closes()
	maShort := MovingAverage(closes, m.short, m.avg)
	maLong := MovingAverage(closes, m.long, m.avg)

	table := types.SignalTable{Indicator: m.Name()}

	for i := 1; i < len(closes); i++ {
		if anyNaN(maShort[i-1], maLong[i-1], maShort[i], maLong[i]) {
			continue
		}

		switch {
		case maShort[i-1] <= maLong[i-1] && maShort[i] > maLong[i]:
			table.Signals = append(table.Signals, newSignal(m.Name(), series.Bars[i], types.SignalBuy))
		case maShort[i-1] >= maLong[i-1] && maShort[i] < maLong[i]:
			table.Signals = append(table.Signals, newSignal(m.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
