package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/types"
)

type FilterTestSuite struct {
	suite.Suite
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterTestSuite))
}

func filterDay(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func filterSeries(t *testing.T, closes ...float64) *types.PriceSeries {
	t.Helper()

	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{
			Symbol: "TEST",
			Time:   filterDay(i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	series, err := types.NewPriceSeries("TEST", bars)
	if err != nil {
		t.Fatalf("failed to build series: %v", err)
	}

	return series
}

func tableWith(d int, direction types.SignalDirection) types.SignalTable {
	return types.SignalTable{
		Indicator: types.IndicatorTypeMACross,
		Signals: []types.Signal{{
			Time:      filterDay(d),
			Direction: direction,
			Indicator: types.IndicatorTypeMACross,
			Symbol:    "TEST",
			Price:     100,
		}},
	}
}

func slopeOnly() config.FilterConfig {
	return config.FilterConfig{
		Slope: config.SlopeFilterConfig{
			Enabled:     true,
			Period:      2,
			SlopePeriod: 3,
			AverageType: "sma",
			Min:         0,
			Max:         0,
		},
	}
}

func (suite *FilterTestSuite) TestSlopeRejectsBuyInDowntrend() {
	series := filterSeries(suite.T(), 20, 19, 18, 17, 16, 15)

	filter, err := NewTrendFilter(slopeOnly(), series)
	suite.Require().NoError(err)

	out := filter.Apply(tableWith(5, types.SignalBuy))
	suite.Empty(out.Signals)

	// A sell rides the downtrend and survives.
	out = filter.Apply(tableWith(5, types.SignalSell))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestSlopeRejectsSellInUptrend() {
	series := filterSeries(suite.T(), 10, 11, 12, 13, 14, 15)

	filter, err := NewTrendFilter(slopeOnly(), series)
	suite.Require().NoError(err)

	out := filter.Apply(tableWith(5, types.SignalSell))
	suite.Empty(out.Signals)

	out = filter.Apply(tableWith(5, types.SignalBuy))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestWarmupBarsPassThrough() {
	series := filterSeries(suite.T(), 20, 19, 18, 17, 16, 15)

	filter, err := NewTrendFilter(slopeOnly(), series)
	suite.Require().NoError(err)

	// The slope is still undefined on the second bar, so the signal
	// cannot be judged and is kept.
	out := filter.Apply(tableWith(1, types.SignalBuy))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestDisabledFilterKeepsEverything() {
	series := filterSeries(suite.T(), 20, 19, 18, 17, 16, 15)

	filter, err := NewTrendFilter(config.FilterConfig{}, series)
	suite.Require().NoError(err)

	out := filter.Apply(tableWith(5, types.SignalBuy))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestADXRejectsWeakTrendBuys() {
	series := filterSeries(suite.T(), 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)

	cfg := config.FilterConfig{
		ADX: config.ADXFilterConfig{
			Enabled:    true,
			Period:     3,
			ADXMin:     150, // unreachable, every buy is rejected
			MinusDIMax: 100,
		},
	}

	filter, err := NewTrendFilter(cfg, series)
	suite.Require().NoError(err)

	out := filter.Apply(tableWith(9, types.SignalBuy))
	suite.Empty(out.Signals)

	// Sells are never subject to the ADX rule.
	out = filter.Apply(tableWith(9, types.SignalSell))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestADXKeepsStrongTrendBuys() {
	series := filterSeries(suite.T(), 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)

	cfg := config.FilterConfig{
		ADX: config.ADXFilterConfig{
			Enabled:    true,
			Period:     3,
			ADXMin:     20,
			PlusDIMin:  10,
			MinusDIMax: 100,
		},
	}

	filter, err := NewTrendFilter(cfg, series)
	suite.Require().NoError(err)

	out := filter.Apply(tableWith(9, types.SignalBuy))
	suite.Len(out.Signals, 1)
}

func (suite *FilterTestSuite) TestOBVAccessors() {
	series := filterSeries(suite.T(), 10, 11, 9)

	filter, err := NewTrendFilter(config.FilterConfig{}, series)
	suite.Require().NoError(err)

	v, ok := filter.OBV(filterDay(1))
	suite.True(ok)
	suite.Equal(1000.0, v)

	suite.Equal(0.0, filter.LastOBV())

	_, ok = filter.OBV(filterDay(9))
	suite.False(ok)
}
