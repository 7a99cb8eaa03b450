package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestBandTouches() {
	// With period 3 and one standard deviation the bands are 10/12 on the
	// fourth bar and 9/13 on the fifth: the 13 close touches the upper
	// band, the 9 close touches the lower one.
	series := testSeries(suite.T(), 10, 12, 11, 13, 9)

	ind, err := NewBollingerBands(3, 1)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Require().Len(table.Signals, 2)

	suite.Equal(types.SignalSell, table.Signals[0].Direction)
	suite.Equal(testDay(3), table.Signals[0].Time)

	suite.Equal(types.SignalBuy, table.Signals[1].Direction)
	suite.Equal(testDay(4), table.Signals[1].Time)
}

func (suite *BollingerBandsTestSuite) TestTrendingInsideBandsYieldsNothing() {
	series := testSeries(suite.T(), 10, 10.1, 10.2, 10.3, 10.4, 10.5)

	ind, err := NewBollingerBands(3, 2)
	suite.Require().NoError(err)

	table, err := ind.Compute(series, Options{})
	suite.Require().NoError(err)
	suite.Empty(table.Signals)
}

func (suite *BollingerBandsTestSuite) TestConstructorValidation() {
	_, err := NewBollingerBands(1, 2)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	_, err = NewBollingerBands(20, 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
