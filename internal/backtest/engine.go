package backtest

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rogersacchelli/stock-analysis/internal/analysis"
	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/indicator"
	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/marketdata"
)

// Engine replays the scoring logic day by day over an evaluation window to
// measure what acting on a recommendation would have returned.
type Engine struct {
	cfg      *config.Config
	registry indicator.Registry
	fetcher  marketdata.Fetcher
	logger   *logger.Logger
}

// NewEngine builds a backtest engine sharing the selector's indicator set.
func NewEngine(cfg *config.Config, registry indicator.Registry, fetcher marketdata.Fetcher, log *logger.Logger) *Engine {
	return &Engine{cfg: cfg, registry: registry, fetcher: fetcher, logger: log}
}

// Run backtests each candidate over [start, end]. Candidates keep their
// input order in the output. Per-candidate failures are logged and skipped.
func (e *Engine) Run(ctx context.Context, candidates []types.TickerAnalysis, start, end time.Time) ([]types.BacktestOutcome, error) {
	longest, err := analysis.LongestLookback(e.registry, e.cfg)
	if err != nil {
		return nil, err
	}

	fetchStart := start.AddDate(0, 0, -analysis.WarmupCalendarDays(longest))
	outcomes := make([]types.BacktestOutcome, 0, len(candidates))
	bar := progressbar.Default(int64(len(candidates)))

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := e.runCandidate(ctx, candidate, fetchStart, start, end)
		if err != nil {
			e.logger.Warn("skipping candidate", zap.String("ticker", candidate.Symbol), zap.Error(err))
			_ = bar.Add(1)

			continue
		}

		outcomes = append(outcomes, outcome)
		_ = bar.Add(1)
	}

	_ = bar.Finish()

	return outcomes, nil
}

// runCandidate walks one candidate's evaluation window and reports the
// terminal state, or an exhausted outcome when no day crossed a threshold.
func (e *Engine) runCandidate(ctx context.Context, candidate types.TickerAnalysis, fetchStart, start, end time.Time) (types.BacktestOutcome, error) {
	series, err := e.fetcher.Fetch(ctx, candidate.Symbol, fetchStart, end)
	if err != nil {
		return types.BacktestOutcome{}, err
	}

	target := candidate.Recommendation.Direction()
	if e.cfg.Backtest.InvertRecommendation {
		target = target.Opposite()
	}

	tables, err := e.computeTables(series)
	if err != nil {
		return types.BacktestOutcome{}, err
	}

	outcome := types.BacktestOutcome{
		Symbol:         candidate.Symbol,
		Recommendation: candidate.Recommendation,
		Target:         target,
		Anchor:         candidate.Anchor,
	}

	result, found, err := e.walk(series, tables, candidate, target, start, end)
	if err != nil {
		return types.BacktestOutcome{}, err
	}

	if found {
		outcome.Result = optional.Some(result)
	}

	return outcome, nil
}

// computeTables produces the full, non-collapsed crossing table of every
// enabled indicator over the extended history.
func (e *Engine) computeTables(series *types.PriceSeries) (map[types.IndicatorType]types.SignalTable, error) {
	filter, err := analysis.NewTrendFilter(e.cfg.Filters, series)
	if err != nil {
		return nil, err
	}

	tables := make(map[types.IndicatorType]types.SignalTable)

	for _, name := range e.registry.List() {
		ind, err := e.registry.Get(name)
		if err != nil {
			return nil, err
		}

		table, err := ind.Compute(series, indicator.Options{})
		if err != nil {
			return nil, err
		}

		tables[name] = filter.Apply(table)
	}

	return tables, nil
}

// walk advances one calendar day at a time looking for the first day whose
// score crosses a threshold. Later days are never considered once a day
// qualifies.
func (e *Engine) walk(series *types.PriceSeries, tables map[types.IndicatorType]types.SignalTable,
	candidate types.TickerAnalysis, target types.SignalDirection, start, end time.Time) (types.BacktestResult, bool, error) {
	weights := e.cfg.EnabledWeights()

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		entries := make(map[types.IndicatorType]analysis.WeightedSignal, len(weights))
		crossings := make(map[types.IndicatorType]types.Signal)

		for name, weight := range weights {
			entry := analysis.WeightedSignal{Weight: weight}

			window := day.AddDate(0, 0, e.cfg.OutputWindow(name))
			if matched := tables[name].CrossingsInRange(target, day, window); len(matched) > 0 {
				entry.Signal = optional.Some(matched[0])
				crossings[name] = matched[0]
			}

			entries[name] = entry
		}

		score, err := analysis.CompositeScore(entries)
		if err != nil {
			return types.BacktestResult{}, false, err
		}

		if analysis.Classify(score, e.cfg.Thresholds) == types.RecommendationHold {
			continue
		}

		result, err := e.terminalResult(series, candidate, day, score, crossings)
		if err != nil {
			return types.BacktestResult{}, false, err
		}

		return result, true, nil
	}

	return types.BacktestResult{}, false, nil
}

// terminalResult computes the gain and period figures for the qualifying
// day, applying the stop rule when enabled.
func (e *Engine) terminalResult(series *types.PriceSeries, candidate types.TickerAnalysis,
	day time.Time, score float64, crossings map[types.IndicatorType]types.Signal) (types.BacktestResult, error) {
	exitBar, ok := series.BarOnOrAfter(day)
	if !ok {
		last, hasLast := series.Last()
		if !hasLast {
			return types.BacktestResult{}, nil
		}

		exitBar = last
	}

	rawGain := gainPercent(candidate.Anchor.Price, exitBar.Close, candidate.Recommendation)
	rawPeriod := calendarDays(candidate.Anchor.Date, exitBar.Time)

	result := types.BacktestResult{
		ExitDate:            day,
		ExitPrice:           exitBar.Close,
		Score:               score,
		Crossings:           crossings,
		RawGainPct:          rawGain,
		RawPeriodDays:       rawPeriod,
		EffectiveGainPct:    rawGain,
		EffectivePeriodDays: rawPeriod,
	}

	if !e.cfg.Risk.Stop.Enabled {
		return result, nil
	}

	stopDate, breached := scanStop(series, candidate.Anchor, candidate.Recommendation, e.cfg.Risk.Stop.Margin)
	if breached && stopDate.Before(exitBar.Time) {
		result.Stopped = true
		result.StopDate = optional.Some(stopDate)
		result.EffectiveGainPct = stopLossPercent(e.cfg.Risk.Stop.Margin)
		result.EffectivePeriodDays = calendarDays(candidate.Anchor.Date, stopDate)
	}

	return result, nil
}

// gainPercent computes (exit - entry) / entry * 100, sign-flipped for Sell
// since a sell recommendation profits from price decline.
func gainPercent(entry, exit float64, rec types.Recommendation) decimal.Decimal {
	entryDec := decimal.NewFromFloat(entry)
	if entryDec.IsZero() {
		return decimal.Zero
	}

	gain := decimal.NewFromFloat(exit).Sub(entryDec).Div(entryDec).Mul(decimal.NewFromInt(100))

	if rec == types.RecommendationSell {
		gain = gain.Neg()
	}

	return gain
}

// calendarDays is the whole-day span between two dates.
func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
