package indicator

import (
	"math"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// MASlopes returns, for each bar, the ordinary-least-squares slope of a
// moving average over the trailing slopePeriod bars. The x axis is the bar
// index 0..slopePeriod-1, so the slope is in price units per bar. Entries
// without a full window are NaN.
func MASlopes(series *types.PriceSeries, maPeriod, slopePeriod int, avg AverageType) ([]float64, error) {
	if maPeriod <= 0 || slopePeriod <= 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"slope windows must be positive with slope period above 1, got ma=%d slope=%d", maPeriod, slopePeriod)
	}

	ma := MovingAverage(series.Closes(), maPeriod, avg)

	out := make([]float64, len(ma))
	for i := range out {
		out[i] = math.NaN()
	}

	for i := slopePeriod - 1; i < len(ma); i++ {
		window := ma[i-slopePeriod+1 : i+1]
		if anyNaN(window...) {
			continue
		}

		out[i] = olsSlope(window)
	}

	return out, nil
}

// olsSlope fits y = a + b*x over x = 0..len(y)-1 and returns b.
func olsSlope(y []float64) float64 {
	n := float64(len(y))
	sumX := n * (n - 1) / 2
	sumXX := n * (n - 1) * (2*n - 1) / 6

	sumY, sumXY := 0.0, 0.0
	for i, v := range y {
		sumY += v
		sumXY += float64(i) * v
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return math.NaN()
	}

	return (n*sumXY - sumX*sumY) / denom
}
