package indicator

import "github.com/rogersacchelli/stock-analysis/internal/types"

// ComputeOBV returns the on-balance volume series: a running total of
// volume signed by the day's close direction. Exposed for filtering only.
func ComputeOBV(series *types.PriceSeries) []float64 {
	out := make([]float64, series.Len())

	for i, bar := range series.Bars {
		if i == 0 {
			out[i] = 0

			continue
		}

		prev := series.Bars[i-1]

		switch {
		case bar.Close > prev.Close:
			out[i] = out[i-1] + bar.Volume
		case bar.Close < prev.Close:
			out[i] = out[i-1] - bar.Volume
		default:
			out[i] = out[i-1]
		}
	}

	return out
}
