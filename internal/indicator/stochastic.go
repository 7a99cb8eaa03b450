package indicator

import (
	"math"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// Stochastic detects %K crossing %D in the stochastic oscillator.
type Stochastic struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a stochastic oscillator indicator.
func NewStochastic(kPeriod, dPeriod int) (*Stochastic, error) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"stochastic periods must be positive, got k=%d d=%d", kPeriod, dPeriod)
	}

	return &Stochastic{kPeriod: kPeriod, dPeriod: dPeriod}, nil
}

// Name returns the indicator type.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Lookback returns the bars needed before %D is defined.
func (s *Stochastic) Lookback() int {
	return s.kPeriod + s.dPeriod
}

// Values returns the %K and %D series.
func (s *Stochastic) Values(series *types.PriceSeries) (percentK, percentD []float64) {
	closes := series.Closes()
	lowest := RollingMin(series.Lows(), s.kPeriod)
	highest := RollingMax(series.Highs(), s.kPeriod)

	percentK = make([]float64, len(closes))

	for i := range closes {
		spread := highest[i] - lowest[i]
		if anyNaN(highest[i], lowest[i]) || spread == 0 {
			percentK[i] = math.NaN()

			continue
		}

		percentK[i] = 100 * (closes[i] - lowest[i]) / spread
	}

	percentD = SimpleMovingAverage(percentK, s.dPeriod)

	return percentK, percentD
}

// Compute detects the bars where %K crosses %D, comparing against the
// previous bar's values.
func (s *Stochastic) Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error) {
	percentK, percentD := s.Values(series)

	table := types.SignalTable{Indicator: s.Name()}

	for i := 1; i < len(percentK); i++ {
		if anyNaN(percentK[i-1], percentD[i-1], percentK[i], percentD[i]) {
			continue
		}

		switch {
		case percentK[i-1] <= percentD[i-1] && percentK[i] > percentD[i]:
			table.Signals = append(table.Signals, newSignal(s.Name(), series.Bars[i], types.SignalBuy))
		case percentK[i-1] >= percentD[i-1] && percentK[i] < percentD[i]:
			table.Signals = append(table.Signals, newSignal(s.Name(), series.Bars[i], types.SignalSell))
		}
	}

	return collapseTable(table, opts), nil
}
