package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

type WeekRuleTestSuite struct {
	suite.Suite
}

func TestWeekRuleSuite(t *testing.T) {
	suite.Run(t, new(WeekRuleTestSuite))
}

func (suite *WeekRuleTestSuite) TestBreakoutDetection() {
	// Five flat bars establish a 11/9 high-low channel, then a close above
	// the prior high and a close at the prior low.
	series := testSeries(suite.T(), 10, 10, 10, 10, 10, 12, 8)

	ind, err := NewWeekRule(1)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Require().Len(table.Signals, 2)

	suite.Equal(types.SignalBuy, table.Signals[0].Direction)
	suite.Equal(testDay(5), table.Signals[0].Time)

	suite.Equal(types.SignalSell, table.Signals[1].Direction)
	suite.Equal(testDay(6), table.Signals[1].Time)
}

func (suite *WeekRuleTestSuite) TestPriorWindowExcludesCurrentBar() {
	// The breakout bar's own high must not raise the bar it breaks.
	series := testSeries(suite.T(), 10, 10, 10, 10, 10, 12)

	ind, err := NewWeekRule(1)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Require().Len(table.Signals, 1)
	suite.Equal(types.SignalBuy, table.Signals[0].Direction)
}

func (suite *WeekRuleTestSuite) TestInsideChannelYieldsNothing() {
	series := testSeries(suite.T(), 10, 10, 10, 10, 10, 10, 10)

	ind, err := NewWeekRule(1)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Empty(table.Signals)
}

func (suite *WeekRuleTestSuite) TestLookback() {
	ind, err := NewWeekRule(4)
	suite.Require().NoError(err)
	suite.Equal(21, ind.Lookback())
}

func (suite *WeekRuleTestSuite) TestConstructorValidation() {
	_, err := NewWeekRule(0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}
