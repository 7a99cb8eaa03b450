package indicator

import (
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// MACD detects crossings of the MACD line over its signal line. The MACD
// line is the difference of two EMAs; the signal line is a rolling mean of
// the MACD line.
type MACD struct {
	short  int
	long   int
	signal int
}

// NewMACD creates a MACD indicator.
func NewMACD(short, long, signal int) (*MACD, error) {
	if short <= 0 || long <= 0 || signal <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"macd periods must be positive, got short=%d long=%d signal=%d", short, long, signal)
	}

	if short >= long {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "macd short window %d must be below long window %d", short, long)
	}

	return &MACD{short: short, long: long, signal: signal}, nil
}

// Name returns the indicator type.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Lookback returns the bars needed before the signal line is defined.
func (m *MACD) Lookback() int {
	return m.long + m.signal
}

// Compute detects the bars where the MACD line crosses the signal line,
// comparing against the previous bar's values.
func (m *MACD) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	closes := series.Closes()
	emaShort := ExponentialMovingAverage(closes, m.short)
	emaLong := ExponentialMovingAverage(closes, m.long)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaShort[i] - emaLong[i]
	}

	signalLine := SimpleMovingAverage(macd, m.signal)

	table := types.SignalTable{Indicator: m.Name()}

	for i := 1; i < len(closes); i++ {
		if anyNaN(signalLine[i-1], signalLine[i]) {
			continue
		}

		switch {
		case macd[i-1] <= signalLine[i-1] && macd[i] > signalLine[i]:
			table.Signals = append(table.Signals, newSignal(m.Name(), series.Bars[i], types.SignalBuy))
		case macd[i-1] >= signalLine[i-1] && macd[i] < signalLine[i]:
			table.Signals = append(table.Signals, newSignal(m.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
