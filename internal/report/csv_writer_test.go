package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/types"
)

type CSVWriterTestSuite struct {
	suite.Suite
	baseDir string
	writer  ResultWriter
}

func TestCSVWriterSuite(t *testing.T) {
	suite.Run(t, new(CSVWriterTestSuite))
}

func (suite *CSVWriterTestSuite) SetupTest() {
	suite.baseDir = suite.T().TempDir()

	writer, err := NewCSVWriter(suite.baseDir)
	suite.Require().NoError(err)
	suite.writer = writer
}

func (suite *CSVWriterTestSuite) TearDownTest() {
	suite.Require().NoError(suite.writer.Close())
}

func (suite *CSVWriterTestSuite) readCSV(name string) [][]string {
	f, err := os.Open(filepath.Join(suite.writer.RunDir(), name))
	suite.Require().NoError(err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	suite.Require().NoError(err)

	return rows
}

func reportDay(d int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func (suite *CSVWriterTestSuite) analysis(symbol string, score float64) types.TickerAnalysis {
	return types.TickerAnalysis{
		Symbol:         symbol,
		Score:          score,
		Recommendation: types.RecommendationBuy,
		Signals: map[types.IndicatorType]types.Signal{
			types.IndicatorTypeMACross: {
				Time:      reportDay(10),
				Direction: types.SignalBuy,
				Indicator: types.IndicatorTypeMACross,
				Symbol:    symbol,
				Price:     101.5,
			},
		},
		Anchor: types.StopAnchor{Date: reportDay(12), Price: 102.25},
	}
}

func (suite *CSVWriterTestSuite) TestWriteSelectionPreservesOrder() {
	err := suite.writer.WriteSelection([]types.TickerAnalysis{
		suite.analysis("ZZZ", 1.0),
		suite.analysis("AAA", 0.75),
	})
	suite.Require().NoError(err)

	rows := suite.readCSV("selection.csv")
	suite.Require().Len(rows, 3)
	suite.Equal([]string{"symbol", "score", "recommendation", "anchor_date", "anchor_price"}, rows[0])
	suite.Equal([]string{"ZZZ", "1.0000", "Buy", "2024-01-13", "102.2500"}, rows[1])
	suite.Equal("AAA", rows[2][0])

	signals := suite.readCSV("signals.csv")
	suite.Require().Len(signals, 3)
	suite.Equal([]string{"ZZZ", "ma_cross", "buy", "2024-01-11", "101.5000"}, signals[1])
}

func (suite *CSVWriterTestSuite) TestWriteBacktestWithResult() {
	outcome := types.BacktestOutcome{
		Symbol:         "TEST",
		Recommendation: types.RecommendationBuy,
		Target:         types.SignalSell,
		Anchor:         types.StopAnchor{Date: reportDay(0), Price: 100},
		Result: optional.Some(types.BacktestResult{
			ExitDate:            reportDay(7),
			ExitPrice:           107,
			Score:               -1,
			RawGainPct:          decimal.NewFromFloat(7),
			RawPeriodDays:       7,
			Stopped:             true,
			StopDate:            optional.Some(reportDay(2)),
			EffectiveGainPct:    decimal.NewFromFloat(-5),
			EffectivePeriodDays: 2,
		}),
	}

	suite.Require().NoError(suite.writer.WriteBacktest([]types.BacktestOutcome{outcome}))

	rows := suite.readCSV("backtest.csv")
	suite.Require().Len(rows, 2)

	row := rows[1]
	suite.Equal("TEST", row[0])
	suite.Equal("Buy", row[1])
	suite.Equal("sell", row[2])
	suite.Equal("2024-01-08", row[5])
	suite.Equal("7.0000", row[8])
	suite.Equal("true", row[10])
	suite.Equal("2024-01-03", row[11])
	suite.Equal("-5.0000", row[12])
	suite.Equal("2", row[13])
}

func (suite *CSVWriterTestSuite) TestWriteBacktestWithoutResultKeepsRow() {
	outcome := types.BacktestOutcome{
		Symbol:         "NONE",
		Recommendation: types.RecommendationSell,
		Target:         types.SignalBuy,
		Anchor:         types.StopAnchor{Date: reportDay(0), Price: 50},
	}

	suite.Require().NoError(suite.writer.WriteBacktest([]types.BacktestOutcome{outcome}))

	rows := suite.readCSV("backtest.csv")
	suite.Require().Len(rows, 2)

	row := rows[1]
	suite.Equal("NONE", row[0])
	suite.Len(row, 14)

	for _, cell := range row[5:] {
		suite.Empty(cell)
	}
}

func (suite *CSVWriterTestSuite) TestWriteRunConfig() {
	cfg := config.Default()
	suite.Require().NoError(suite.writer.WriteRunConfig(&cfg))

	raw, err := os.ReadFile(filepath.Join(suite.writer.RunDir(), "run.yaml"))
	suite.Require().NoError(err)

	suite.Contains(string(raw), "run_id:")
	suite.Contains(string(raw), "period_days: 365")
}
