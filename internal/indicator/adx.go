package indicator

import (
	"math"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// ADXSeries holds the directional-movement columns. ADX is used only to
// filter other indicators' signals, never as a standalone buy or sell.
type ADXSeries struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ComputeADX returns ADX and ±DI using Wilder's true-range directional
// movement with rolling-sum smoothing of the period, and a rolling mean of
// DX for the ADX line.
func ComputeADX(series *types.PriceSeries, period int) (ADXSeries, error) {
	if period <= 0 {
		return ADXSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod, "adx period must be positive, got %d", period)
	}

	n := series.Len()
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i, bar := range series.Bars {
		if i == 0 {
			tr[i] = bar.High - bar.Low

			continue
		}

		prev := series.Bars[i-1]
		tr[i] = math.Max(bar.High-bar.Low,
			math.Max(math.Abs(bar.High-prev.Close), math.Abs(bar.Low-prev.Close)))

		upMove := bar.High - prev.High
		downMove := prev.Low - bar.Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}

		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	trSum := RollingSum(tr, period)
	plusSum := RollingSum(plusDM, period)
	minusSum := RollingSum(minusDM, period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)

	for i := 0; i < n; i++ {
		if anyNaN(trSum[i]) || trSum[i] == 0 {
			plusDI[i] = math.NaN()
			minusDI[i] = math.NaN()
			dx[i] = math.NaN()

			continue
		}

		plusDI[i] = plusSum[i] / trSum[i] * 100
		minusDI[i] = minusSum[i] / trSum[i] * 100

		diSum := plusDI[i] + minusDI[i]
		if diSum == 0 {
			dx[i] = math.NaN()
		} else {
			dx[i] = math.Abs(plusDI[i]-minusDI[i]) / diSum * 100
		}
	}

	return ADXSeries{
		ADX:     SimpleMovingAverage(dx, period),
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}, nil
}
