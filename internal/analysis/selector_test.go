package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// fakeFetcher serves canned series per ticker and records fetch order.
type fakeFetcher struct {
	series  map[string]*types.PriceSeries
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, ticker string, start, end time.Time) (*types.PriceSeries, error) {
	f.fetched = append(f.fetched, ticker)

	series, ok := f.series[ticker]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no data found for ticker %s", ticker)
	}

	return series, nil
}

type SelectorTestSuite struct {
	suite.Suite
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorTestSuite))
}

// selectorConfig enables a single fast MA cross so crossing timing is easy
// to control from the synthetic closes.
func (suite *SelectorTestSuite) selectorConfig() *config.Config {
	cfg := config.Default()
	cfg.PeriodDays = 30
	cfg.Trend.MACross.Short = 2
	cfg.Trend.MACross.Long = 3
	cfg.Trend.MACross.OutputWindow = 5

	suite.Require().NoError(cfg.Validate())

	return &cfg
}

// buySeries dips and recovers so the short average crosses up on the final
// bar.
func (suite *SelectorTestSuite) buySeries(symbol string) *types.PriceSeries {
	return suite.series(symbol, 10, 9, 8, 7, 10)
}

// holdSeries trends monotonically so the averages never cross.
func (suite *SelectorTestSuite) holdSeries(symbol string) *types.PriceSeries {
	return suite.series(symbol, 1, 2, 3, 4, 5, 6)
}

func (suite *SelectorTestSuite) series(symbol string, closes ...float64) *types.PriceSeries {
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{
			Symbol: symbol,
			Time:   filterDay(i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	series, err := types.NewPriceSeries(symbol, bars)
	suite.Require().NoError(err)

	return series
}

func (suite *SelectorTestSuite) newSelector(fetcher *fakeFetcher) *Selector {
	selector, err := NewSelector(suite.selectorConfig(), fetcher, logger.NewNopLogger())
	suite.Require().NoError(err)

	return selector
}

func (suite *SelectorTestSuite) TestRetainsBuyRecommendation() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.buySeries("XYZ"),
	}}

	selector := suite.newSelector(fetcher)

	results, err := selector.Run(context.Background(), []string{"XYZ"}, 0, filterDay(4))
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)

	got := results[0]
	suite.Equal("XYZ", got.Symbol)
	suite.InDelta(1.0, got.Score, 1e-9)
	suite.Equal(types.RecommendationBuy, got.Recommendation)
	suite.Equal(filterDay(4), got.Anchor.Date)
	suite.Equal(10.0, got.Anchor.Price)

	signal, ok := got.Signals[types.IndicatorTypeMACross]
	suite.Require().True(ok)
	suite.Equal(types.SignalBuy, signal.Direction)
	suite.Equal(filterDay(4), signal.Time)
}

func (suite *SelectorTestSuite) TestSingleCrossingScoresFullBuy() {
	// 300 bars: flat at 100, then a jump and steady rise from bar 210 so
	// SMA(20) crosses over SMA(50) exactly once, confirmed on bar 210.
	closes := make([]float64, 300)
	for i := range closes {
		if i < 210 {
			closes[i] = 100
		} else {
			closes[i] = 110 + float64(i-210)
		}
	}

	cfg := config.Default()
	cfg.PeriodDays = 300

	suite.Require().NoError(cfg.Validate())

	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.series("XYZ", closes...),
	}}

	selector, err := NewSelector(&cfg, fetcher, logger.NewNopLogger())
	suite.Require().NoError(err)

	results, err := selector.Run(context.Background(), []string{"XYZ"}, 0, filterDay(212))
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)

	got := results[0]
	suite.Equal("XYZ", got.Symbol)
	suite.InDelta(1.0, got.Score, 1e-9)
	suite.Equal(types.RecommendationBuy, got.Recommendation)

	signal, ok := got.Signals[types.IndicatorTypeMACross]
	suite.Require().True(ok)
	suite.Equal(types.SignalBuy, signal.Direction)
	suite.Equal(filterDay(210), signal.Time)
}

func (suite *SelectorTestSuite) TestDropsHoldTickers() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"FLAT": suite.holdSeries("FLAT"),
	}}

	selector := suite.newSelector(fetcher)

	results, err := selector.Run(context.Background(), []string{"FLAT"}, 0, filterDay(5))
	suite.Require().NoError(err)
	suite.Empty(results)
}

func (suite *SelectorTestSuite) TestStaleSignalOutsideWindowIsDropped() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.buySeries("XYZ"),
	}}

	selector := suite.newSelector(fetcher)

	// The crossing sits on day 4; analyzing three weeks later puts it
	// outside the five-day output window.
	results, err := selector.Run(context.Background(), []string{"XYZ"}, 0, filterDay(25))
	suite.Require().NoError(err)
	suite.Empty(results)
}

func (suite *SelectorTestSuite) TestFailedTickerIsSkippedNotFatal() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.buySeries("XYZ"),
	}}

	selector := suite.newSelector(fetcher)

	results, err := selector.Run(context.Background(), []string{"MISSING", "XYZ"}, 0, filterDay(4))
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal("XYZ", results[0].Symbol)
}

func (suite *SelectorTestSuite) TestLimitStopsInListOrder() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"A": suite.buySeries("A"),
		"B": suite.buySeries("B"),
		"C": suite.buySeries("C"),
	}}

	selector := suite.newSelector(fetcher)

	results, err := selector.Run(context.Background(), []string{"A", "B", "C"}, 2, filterDay(4))
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.Equal("A", results[0].Symbol)
	suite.Equal("B", results[1].Symbol)
	// The third ticker is never fetched once the limit is spent.
	suite.Equal([]string{"A", "B"}, fetcher.fetched)
}

func (suite *SelectorTestSuite) TestLimitCountsProcessedNotRetained() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"FLAT": suite.holdSeries("FLAT"),
		"B":    suite.buySeries("B"),
		"C":    suite.buySeries("C"),
	}}

	selector := suite.newSelector(fetcher)

	// A hold still consumes a limit slot, so only the first two tickers
	// are examined and the third buy is never seen.
	results, err := selector.Run(context.Background(), []string{"FLAT", "B", "C"}, 2, filterDay(4))
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal("B", results[0].Symbol)
	suite.Equal([]string{"FLAT", "B"}, fetcher.fetched)
}

func (suite *SelectorTestSuite) TestLimitCountsFailedTickers() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.buySeries("XYZ"),
	}}

	selector := suite.newSelector(fetcher)

	results, err := selector.Run(context.Background(), []string{"MISSING", "XYZ"}, 1, filterDay(4))
	suite.Require().NoError(err)
	suite.Empty(results)
	suite.Equal([]string{"MISSING"}, fetcher.fetched)
}

func (suite *SelectorTestSuite) TestRepeatedRunsAreIdempotent() {
	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{
		"XYZ": suite.buySeries("XYZ"),
	}}

	selector := suite.newSelector(fetcher)

	first, err := selector.Run(context.Background(), []string{"XYZ"}, 0, filterDay(4))
	suite.Require().NoError(err)

	second, err := selector.Run(context.Background(), []string{"XYZ"}, 0, filterDay(4))
	suite.Require().NoError(err)

	suite.Equal(first, second)
}

func (suite *SelectorTestSuite) TestCancelledContextAborts() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{series: map[string]*types.PriceSeries{}}
	selector := suite.newSelector(fetcher)

	_, err := selector.Run(ctx, []string{"XYZ"}, 0, filterDay(4))
	suite.Error(err)
}

func (suite *SelectorTestSuite) TestWarmupCalendarDays() {
	// 50 trading bars pad out to 70 calendar days plus the holiday buffer.
	suite.Equal(77, WarmupCalendarDays(50))
	suite.Equal(7, WarmupCalendarDays(0))
}

func (suite *SelectorTestSuite) TestLongestLookback() {
	cfg := suite.selectorConfig()

	selector, err := NewSelector(cfg, &fakeFetcher{}, logger.NewNopLogger())
	suite.Require().NoError(err)

	longest, err := LongestLookback(selector.Registry(), cfg)
	suite.Require().NoError(err)
	suite.Equal(3, longest)

	cfg.Filters.Slope.Enabled = true
	cfg.Filters.Slope.Period = 20
	cfg.Filters.Slope.SlopePeriod = 5

	longest, err = LongestLookback(selector.Registry(), cfg)
	suite.Require().NoError(err)
	suite.Equal(25, longest)
}

func (suite *SelectorTestSuite) TestSortByScore() {
	analyses := []types.TickerAnalysis{
		{Symbol: "LOW", Score: 0.6},
		{Symbol: "NEG", Score: -1.0},
		{Symbol: "HIGH", Score: 0.9},
	}

	sorted := SortByScore(analyses)

	suite.Equal("NEG", sorted[0].Symbol)
	suite.Equal("HIGH", sorted[1].Symbol)
	suite.Equal("LOW", sorted[2].Symbol)
	// Input untouched.
	suite.Equal("LOW", analyses[0].Symbol)
}
