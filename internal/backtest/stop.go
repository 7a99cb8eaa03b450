package backtest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogersacchelli/stock-analysis/internal/types"
)

// scanStop finds the first bar after the anchor where the close moved
// against the recommendation by more than the margin fraction. A Buy anchor
// is breached below entry, a Sell anchor above it.
func scanStop(series *types.PriceSeries, anchor types.StopAnchor, rec types.Recommendation, margin float64) (time.Time, bool) {
	var breach func(close float64) bool

	switch rec {
	case types.RecommendationBuy:
		limit := anchor.Price * (1 - margin)
		breach = func(close float64) bool { return close <= limit }
	case types.RecommendationSell:
		limit := anchor.Price * (1 + margin)
		breach = func(close float64) bool { return close >= limit }
	default:
		return time.Time{}, false
	}

	for i := series.IndexOnOrAfter(anchor.Date); i >= 0 && i < series.Len(); i++ {
		bar := series.Bars[i]
		if bar.Time.Equal(anchor.Date) {
			continue
		}

		if breach(bar.Close) {
			return bar.Time, true
		}
	}

	return time.Time{}, false
}

// stopLossPercent is the truncated gain when the stop rule fires: the
// position is closed at exactly the margin loss.
func stopLossPercent(margin float64) decimal.Decimal {
	return decimal.NewFromFloat(margin).Mul(decimal.NewFromInt(-100))
}
