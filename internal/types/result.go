package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Recommendation is the classified outcome of a composite score.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "Buy"
	RecommendationSell Recommendation = "Sell"
	RecommendationHold Recommendation = "Hold"
)

// Direction maps a recommendation to the signal direction it acts on.
func (r Recommendation) Direction() SignalDirection {
	switch r {
	case RecommendationBuy:
		return SignalBuy
	case RecommendationSell:
		return SignalSell
	default:
		return SignalHold
	}
}

// StopAnchor is the reference price point captured at selection time and
// used later for stop-loss evaluation.
type StopAnchor struct {
	Date  time.Time
	Price float64
}

// TickerAnalysis is one retained ticker's selection result.
type TickerAnalysis struct {
	// Symbol is the ticker symbol
	Symbol string
	// Score is the normalized composite score in [-1, 1]
	Score float64
	// Recommendation is the threshold classification of Score
	Recommendation Recommendation
	// Signals holds the last qualifying signal per enabled indicator
	Signals map[IndicatorType]Signal
	// Anchor is the last close of the selection window
	Anchor StopAnchor
}

// BacktestResult is the terminal state of one ticker's backtest walk.
type BacktestResult struct {
	// ExitDate is the first analysis day whose score crossed a threshold
	ExitDate time.Time
	// ExitPrice is the close of the first bar on or after ExitDate
	ExitPrice float64
	// Score is the day score that triggered the exit
	Score float64
	// Crossings holds the matched crossing per indicator that contributed
	Crossings map[IndicatorType]Signal
	// RawGainPct is the gain between anchor and exit, sign-flipped for Sell
	RawGainPct decimal.Decimal
	// RawPeriodDays is the calendar span between anchor and exit dates
	RawPeriodDays int
	// Stopped reports whether the stop rule truncated the trade
	Stopped bool
	// StopDate is the first stop-breach date, when the stop rule fired
	StopDate optional.Option[time.Time]
	// EffectiveGainPct equals RawGainPct unless the stop rule fired
	EffectiveGainPct decimal.Decimal
	// EffectivePeriodDays equals RawPeriodDays unless the stop rule fired
	EffectivePeriodDays int
}

// BacktestOutcome is one candidate's full backtest report. Result is None
// when no day in the window crossed a threshold; such tickers are still
// reported, never silently omitted.
type BacktestOutcome struct {
	Symbol string
	// Recommendation is the original selection-time recommendation
	Recommendation Recommendation
	// Target is the signal direction the walk searched for
	Target SignalDirection
	// Anchor is the selection-time stop anchor
	Anchor StopAnchor
	// Result is the terminal walk state, or None when exhausted
	Result optional.Option[BacktestResult]
}
