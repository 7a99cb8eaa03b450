package analysis

import (
	"math"
	"time"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/indicator"
	"github.com/rogersacchelli/stock-analysis/internal/types"
)

// TrendFilter discards indicator signals that fire against the underlying
// trend: buys on a flattening or falling moving average, and buys without
// directional strength in the ADX columns. Auxiliary series are computed
// once per ticker and shared across all indicator tables.
type TrendFilter struct {
	cfg    config.FilterConfig
	slopes []float64
	adx    indicator.ADXSeries
	obv    []float64
	index  map[time.Time]int
}

// NewTrendFilter precomputes the auxiliary columns for one price series.
func NewTrendFilter(cfg config.FilterConfig, series *types.PriceSeries) (*TrendFilter, error) {
	f := &TrendFilter{
		cfg:   cfg,
		obv:   indicator.ComputeOBV(series),
		index: make(map[time.Time]int, series.Len()),
	}

	for i, bar := range series.Bars {
		f.index[bar.Time] = i
	}

	if cfg.Slope.Enabled {
		slopes, err := indicator.MASlopes(series, cfg.Slope.Period, cfg.Slope.SlopePeriod,
			indicator.AverageType(cfg.Slope.AverageType))
		if err != nil {
			return nil, err
		}

		f.slopes = slopes
	}

	if cfg.ADX.Enabled {
		adx, err := indicator.ComputeADX(series, cfg.ADX.Period)
		if err != nil {
			return nil, err
		}

		f.adx = adx
	}

	return f, nil
}

// Apply returns the table with filtered-out signals removed.
func (f *TrendFilter) Apply(table types.SignalTable) types.SignalTable {
	out := types.SignalTable{Indicator: table.Indicator}

	for _, s := range table.Signals {
		if f.rejects(s) {
			continue
		}

		out.Signals = append(out.Signals, s)
	}

	return out
}

// rejects evaluates one signal against the slope and ADX rules. Bars whose
// auxiliary values are still NaN cannot be judged and pass through.
func (f *TrendFilter) rejects(s types.Signal) bool {
	i, ok := f.index[s.Time]
	if !ok {
		return false
	}

	if f.cfg.Slope.Enabled && f.slopes != nil && !math.IsNaN(f.slopes[i]) {
		if s.Direction == types.SignalBuy && f.slopes[i] < f.cfg.Slope.Min {
			return true
		}

		if s.Direction == types.SignalSell && f.slopes[i] > f.cfg.Slope.Max {
			return true
		}
	}

	if f.cfg.ADX.Enabled && s.Direction == types.SignalBuy && f.adx.ADX != nil {
		adx, plusDI, minusDI := f.adx.ADX[i], f.adx.PlusDI[i], f.adx.MinusDI[i]

		if !math.IsNaN(adx) && adx < f.cfg.ADX.ADXMin {
			return true
		}

		if !math.IsNaN(plusDI) && plusDI < f.cfg.ADX.PlusDIMin {
			return true
		}

		if !math.IsNaN(minusDI) && minusDI > f.cfg.ADX.MinusDIMax {
			return true
		}
	}

	return false
}

// OBV returns the on-balance volume value on the signal's bar.
func (f *TrendFilter) OBV(t time.Time) (float64, bool) {
	i, ok := f.index[t]
	if !ok {
		return 0, false
	}

	return f.obv[i], true
}

// LastOBV returns the most recent on-balance volume value.
func (f *TrendFilter) LastOBV() float64 {
	if len(f.obv) == 0 {
		return 0
	}

	return f.obv[len(f.obv)-1]
}
