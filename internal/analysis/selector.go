package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/indicator"
	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/marketdata"
)

// BuildRegistry constructs the enabled indicators from the configuration.
// Registration order follows the config layout so reports list indicators
// consistently across runs.
func BuildRegistry(cfg *config.Config) (indicator.Registry, error) {
	reg := indicator.NewRegistry()

	if cfg.Trend.MACross.Enabled {
		ind, err := indicator.NewMACross(cfg.Trend.MACross.Short, cfg.Trend.MACross.Long,
			indicator.AverageType(cfg.Trend.MACross.AverageType))
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Trend.LongTermMA.Enabled {
		ind, err := indicator.NewLongTermMA(cfg.Trend.LongTermMA.Period,
			indicator.AverageType(cfg.Trend.LongTermMA.AverageType))
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Trend.BollingerBands.Enabled {
		ind, err := indicator.NewBollingerBands(cfg.Trend.BollingerBands.Period, cfg.Trend.BollingerBands.StdDev)
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Trend.WeekRule.Enabled {
		ind, err := indicator.NewWeekRule(cfg.Trend.WeekRule.Weeks)
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Momentum.MACD.Enabled {
		ind, err := indicator.NewMACD(cfg.Momentum.MACD.Short, cfg.Momentum.MACD.Long, cfg.Momentum.MACD.Signal)
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Momentum.RSI.Enabled {
		ind, err := indicator.NewRSI(cfg.Momentum.RSI.Period, cfg.Momentum.RSI.Lower, cfg.Momentum.RSI.Upper)
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	if cfg.Momentum.Stochastic.Enabled {
		ind, err := indicator.NewStochastic(cfg.Momentum.Stochastic.KPeriod, cfg.Momentum.Stochastic.DPeriod)
		if err != nil {
			return nil, err
		}

		if err := reg.Register(ind); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// LongestLookback returns the deepest warm-up any enabled indicator or
// filter needs, in trading bars.
func LongestLookback(reg indicator.Registry, cfg *config.Config) (int, error) {
	longest := 0

	for _, name := range reg.List() {
		ind, err := reg.Get(name)
		if err != nil {
			return 0, err
		}

		if lb := ind.Lookback(); lb > longest {
			longest = lb
		}
	}

	if cfg.Filters.Slope.Enabled {
		if lb := cfg.Filters.Slope.Period + cfg.Filters.Slope.SlopePeriod; lb > longest {
			longest = lb
		}
	}

	if cfg.Filters.ADX.Enabled {
		if lb := 2 * cfg.Filters.ADX.Period; lb > longest {
			longest = lb
		}
	}

	return longest, nil
}

// WarmupCalendarDays converts a trading-bar lookback into the calendar days
// to extend a fetch range by, padded for weekends and holidays.
func WarmupCalendarDays(lookbackBars int) int {
	return (lookbackBars*7+4)/5 + 7
}

// Selector runs the selection pass: fetch, compute, filter, score and
// classify each ticker, keeping only actionable recommendations.
type Selector struct {
	cfg      *config.Config
	registry indicator.Registry
	fetcher  marketdata.Fetcher
	logger   *logger.Logger
}

// NewSelector builds a selector from a validated configuration.
func NewSelector(cfg *config.Config, fetcher marketdata.Fetcher, log *logger.Logger) (*Selector, error) {
	reg, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &Selector{cfg: cfg, registry: reg, fetcher: fetcher, logger: log}, nil
}

// Registry exposes the built indicator set, mainly for the backtest engine.
func (s *Selector) Registry() indicator.Registry {
	return s.registry
}

// FetchRange returns the [start, end] range a ticker needs so every enabled
// indicator has defined values over the whole selection window.
func (s *Selector) FetchRange(endDate time.Time) (time.Time, time.Time, error) {
	longest, err := LongestLookback(s.registry, s.cfg)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := endDate.AddDate(0, 0, -(s.cfg.PeriodDays + WarmupCalendarDays(longest)))

	return start, endDate, nil
}

// Run analyzes tickers in input order, processing at most limit tickers.
// The limit counts tickers examined, not retained, so a hold or a failure
// still consumes a slot. Limit zero means no cap. Per-ticker failures are
// logged and skipped; one bad symbol never aborts the batch.
func (s *Selector) Run(ctx context.Context, tickers []string, limit int, endDate time.Time) ([]types.TickerAnalysis, error) {
	start, end, err := s.FetchRange(endDate)
	if err != nil {
		return nil, err
	}

	weights := s.cfg.EnabledWeights()
	results := make([]types.TickerAnalysis, 0, len(tickers))
	bar := progressbar.Default(int64(len(tickers)))
	processed := 0

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if limit > 0 && processed >= limit {
			break
		}

		processed++
		_ = bar.Add(1)

		analysis, err := s.analyzeTicker(ctx, ticker, start, end, weights)
		if err != nil {
			s.logger.Warn("skipping ticker", zap.String("ticker", ticker), zap.Error(err))
			continue
		}

		if analysis.IsNone() {
			continue
		}

		results = append(results, analysis.Unwrap())
	}

	_ = bar.Finish()

	return results, nil
}

// analyzeTicker produces one ticker's analysis, or None when the composite
// score classifies as hold.
func (s *Selector) analyzeTicker(ctx context.Context, ticker string, start, end time.Time,
	weights map[types.IndicatorType]float64) (optional.Option[types.TickerAnalysis], error) {
	series, err := s.fetcher.Fetch(ctx, ticker, start, end)
	if err != nil {
		return optional.None[types.TickerAnalysis](), err
	}

	filter, err := NewTrendFilter(s.cfg.Filters, series)
	if err != nil {
		return optional.None[types.TickerAnalysis](), err
	}

	entries := make(map[types.IndicatorType]WeightedSignal, len(weights))
	signals := make(map[types.IndicatorType]types.Signal)

	for _, name := range s.registry.List() {
		ind, err := s.registry.Get(name)
		if err != nil {
			return optional.None[types.TickerAnalysis](), err
		}

		table, err := ind.Compute(series, indicator.Options{
			EndDate:      end,
			OutputWindow: s.cfg.OutputWindow(name),
			Collapse:     true,
		})
		if err != nil {
			return optional.None[types.TickerAnalysis](), err
		}

		table = filter.Apply(table)

		entry := WeightedSignal{Weight: weights[name]}

		if last, ok := table.Latest(); ok {
			entry.Signal = optional.Some(last)
			signals[name] = last
		}

		entries[name] = entry
	}

	score, err := CompositeScore(entries)
	if err != nil {
		return optional.None[types.TickerAnalysis](), err
	}

	recommendation := Classify(score, s.cfg.Thresholds)
	if recommendation == types.RecommendationHold {
		return optional.None[types.TickerAnalysis](), nil
	}

	last, ok := series.Last()
	if !ok {
		return optional.None[types.TickerAnalysis](), nil
	}

	return optional.Some(types.TickerAnalysis{
		Symbol:         ticker,
		Score:          score,
		Recommendation: recommendation,
		Signals:        signals,
		Anchor:         types.StopAnchor{Date: last.Time, Price: last.Close},
	}), nil
}

// SortByScore orders analyses by descending absolute score, symbol as the
// tie-break, without mutating the input.
func SortByScore(analyses []types.TickerAnalysis) []types.TickerAnalysis {
	out := make([]types.TickerAnalysis, len(analyses))
	copy(out, analyses)

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := abs(out[i].Score), abs(out[j].Score)
		if ai != aj {
			return ai > aj
		}

		return out[i].Symbol < out[j].Symbol
	})

	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
