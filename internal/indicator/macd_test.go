package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestSignalLineCrossings() {
	// Flat prices keep MACD at zero; the spike lifts it above the slower
	// signal average, the drop pushes it back under.
	series := testSeries(suite.T(), 10, 10, 10, 14, 10)

	ind, err := NewMACD(1, 2, 2)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Require().Len(table.Signals, 2)

	suite.Equal(types.SignalBuy, table.Signals[0].Direction)
	suite.Equal(testDay(3), table.Signals[0].Time)

	suite.Equal(types.SignalSell, table.Signals[1].Direction)
	suite.Equal(testDay(4), table.Signals[1].Time)
}

func (suite *MACDTestSuite) TestFlatSeriesYieldsNothing() {
	series := testSeries(suite.T(), 10, 10, 10, 10, 10, 10)

	ind, err := NewMACD(2, 4, 2)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Empty(table.Signals)
}

func (suite *MACDTestSuite) TestLookback() {
	ind, err := NewMACD(12, 26, 9)
	suite.Require().NoError(err)
	suite.Equal(35, ind.Lookback())
}

func (suite *MACDTestSuite) TestConstructorValidation() {
	_, err := NewMACD(26, 12, 9)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = NewMACD(12, 26, 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}
