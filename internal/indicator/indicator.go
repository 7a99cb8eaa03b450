package indicator

import (
	"time"

	"github.com/rogersacchelli/stock-analysis/internal/types"
)

// Options controls how an indicator's signal table is produced.
type Options struct {
	// EndDate anchors the output window in selection mode.
	EndDate time.Time
	// OutputWindow is how many calendar days back a crossing may have
	// occurred and still count as current. Zero disables the window.
	OutputWindow int
	// Collapse reduces the table to at most the single most recent
	// crossing inside the output window. Selection mode collapses;
	// backtest mode keeps the full table.
	Collapse bool
}

// Indicator computes one technical signal over a price series. Indicators
// consume the series read-only and return an isolated signal table; they
// never mutate caller data.
type Indicator interface {
	// Name returns the indicator type.
	Name() types.IndicatorType
	// Compute produces the crossing table for the series. Bars without
	// enough history yield no crossings (implicit hold).
	Compute(series *types.PriceSeries, opts Options) (types.SignalTable, error)
	// Lookback returns the number of bars the indicator needs before it
	// can produce a defined value.
	Lookback() int
}

// collapseTable applies the output-window rule: in selection mode only the
// most recent crossing dated on or after endDate minus the window survives.
func collapseTable(table types.SignalTable, opts Options) types.SignalTable {
	if !opts.Collapse || opts.OutputWindow <= 0 {
		return table
	}

	cutoff := opts.EndDate.AddDate(0, 0, -opts.OutputWindow)

	last, ok := table.LatestOnOrAfter(cutoff)
	if !ok {
		return types.SignalTable{Indicator: table.Indicator}
	}

	return types.SignalTable{Indicator: table.Indicator, Signals: []types.Signal{last}}
}

// newSignal builds a crossing entry from the bar it was confirmed on.
func newSignal(indicator types.IndicatorType, bar types.PriceBar, direction types.SignalDirection) types.Signal {
	return types.Signal{
		Time:      bar.Time,
		Direction: direction,
		Indicator: indicator,
		Symbol:    bar.Symbol,
		Price:     bar.Close,
	}
}
