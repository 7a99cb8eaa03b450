package analysis

import (
	"github.com/moznion/go-optional"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// WeightedSignal pairs an enabled indicator's weight with its most recent
// qualifying signal, if any. Indicators without a signal still contribute
// their weight to the score denominator, which deliberately penalizes
// tickers with missing indicator coverage.
type WeightedSignal struct {
	Weight float64
	Signal optional.Option[types.Signal]
}

// CompositeScore combines the enabled indicators' signals into one
// normalized score in [-1, 1]: the sum of signed weights (positive for buy,
// negative for sell) divided by the total enabled weight.
func CompositeScore(entries map[types.IndicatorType]WeightedSignal) (float64, error) {
	totalWeight := 0.0
	for _, e := range entries {
		totalWeight += e.Weight
	}

	if totalWeight == 0 {
		return 0, errors.New(errors.ErrCodeNoIndicatorsEnabled,
			"composite score is undefined with zero total indicator weight")
	}

	score := 0.0

	for _, e := range entries {
		signal, err := e.Signal.Take()
		if err != nil {
			continue
		}

		switch signal.Direction {
		case types.SignalBuy:
			score += e.Weight
		case types.SignalSell:
			score -= e.Weight
		}
	}

	return score / totalWeight, nil
}

// Classify maps a normalized score onto a recommendation using the
// configured thresholds.
func Classify(score float64, thresholds config.ThresholdConfig) types.Recommendation {
	switch {
	case score >= thresholds.Buy:
		return types.RecommendationBuy
	case score <= thresholds.Sell:
		return types.RecommendationSell
	default:
		return types.RecommendationHold
	}
}
