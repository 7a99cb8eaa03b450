package indicator

import "math"

// AverageType selects the moving-average flavor used by an indicator.
type AverageType string

const (
	AverageTypeSMA AverageType = "sma"
	AverageTypeEMA AverageType = "ema"
)

// SimpleMovingAverage returns the rolling mean of values over window bars.
// Entries before a full window are NaN, as is any window containing NaN.
func SimpleMovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}

		out[i] = sum / float64(window)
	}

	return out
}

// ExponentialMovingAverage returns the exponentially weighted mean with
// alpha = 2/(span+1), seeded from the first value.
func ExponentialMovingAverage(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}

// MovingAverage dispatches on the average type.
func MovingAverage(values []float64, window int, avg AverageType) []float64 {
	if avg == AverageTypeEMA {
		return ExponentialMovingAverage(values, window)
	}

	return SimpleMovingAverage(values, window)
}

// RollingStd returns the rolling sample standard deviation over window bars.
// Entries before a full window are NaN.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window <= 1 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += values[j]
		}

		mean /= float64(window)

		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}

		out[i] = math.Sqrt(variance / float64(window-1))
	}

	return out
}

// RollingMax returns the rolling maximum over window bars, NaN before a
// full window.
func RollingMax(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		m := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if values[j] > m {
				m = values[j]
			}
		}

		out[i] = m
	}

	return out
}

// RollingMin returns the rolling minimum over window bars, NaN before a
// full window.
func RollingMin(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		m := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			if values[j] < m {
				m = values[j]
			}
		}

		out[i] = m
	}

	return out
}

// RollingSum returns the rolling sum over window bars, NaN before a full
// window.
func RollingSum(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}

		out[i] = sum
	}

	return out
}

// Shift returns the series displaced forward by n bars; the first n entries
// are NaN.
func Shift(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
		} else {
			out[i] = values[i-n]
		}
	}

	return out
}

// anyNaN reports whether any of the given values is NaN.
func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}
