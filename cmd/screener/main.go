package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rogersacchelli/stock-analysis/internal/analysis"
	"github.com/rogersacchelli/stock-analysis/internal/backtest"
	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/report"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
	"github.com/rogersacchelli/stock-analysis/pkg/marketdata"
)

// loadTickers reads a JSON array of ticker symbols.
func loadTickers(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to read tickers file %s", path)
	}

	var tickers []string
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to parse tickers file %s", path)
	}

	if len(tickers) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "tickers file %s is empty", path)
	}

	return tickers, nil
}

// newFetcher builds the market data client from the CLI flags.
func newFetcher(cmd *cli.Command, log *logger.Logger) (*marketdata.Client, error) {
	return marketdata.NewClient(marketdata.ClientConfig{
		Provider:      marketdata.ProviderType(cmd.String("provider")),
		CachePath:     cmd.String("cache"),
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
	}, log)
}

// analyzeAction runs the selection pass and writes the selection report.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	tickers, err := loadTickers(cmd.String("input"))
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cmd, log)
	if err != nil {
		return err
	}
	defer func() { _ = fetcher.Close() }()

	selector, err := analysis.NewSelector(cfg, fetcher, log)
	if err != nil {
		return err
	}

	endDate := cmd.Timestamp("end")

	log.Info("starting analysis",
		zap.Int("tickers", len(tickers)),
		zap.Int("limit", int(cmd.Int("limit"))),
		zap.Time("end", endDate))

	results, err := selector.Run(ctx, tickers, int(cmd.Int("limit")), endDate)
	if err != nil {
		return err
	}

	writer, err := report.NewCSVWriter(cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() { _ = writer.Close() }()

	if err := writer.WriteSelection(results); err != nil {
		return err
	}

	if err := writer.WriteRunConfig(cfg); err != nil {
		return err
	}

	log.Info("analysis complete",
		zap.Int("retained", len(results)),
		zap.String("report", writer.RunDir()))

	return nil
}

// backtestAction selects candidates as of the window start, replays the
// window day by day and writes the backtest report.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	tickers, err := loadTickers(cmd.String("input"))
	if err != nil {
		return err
	}

	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")

	if !start.Before(end) {
		return errors.Newf(errors.ErrCodeBacktestWindowInvalid,
			"start date %s must be before end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	fetcher, err := newFetcher(cmd, log)
	if err != nil {
		return err
	}
	defer func() { _ = fetcher.Close() }()

	selector, err := analysis.NewSelector(cfg, fetcher, log)
	if err != nil {
		return err
	}

	// Candidates are selected as of the backtest start so the walk only
	// sees data the selection could not have seen.
	log.Info("selecting backtest candidates",
		zap.Int("tickers", len(tickers)),
		zap.Time("start", start),
		zap.Time("end", end))

	candidates, err := selector.Run(ctx, tickers, int(cmd.Int("limit")), start)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return errors.New(errors.ErrCodeBacktestNoCandidates, "no tickers crossed a threshold at the window start")
	}

	engine := backtest.NewEngine(cfg, selector.Registry(), fetcher, log)

	outcomes, err := engine.Run(ctx, candidates, start, end)
	if err != nil {
		return err
	}

	writer, err := report.NewCSVWriter(cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() { _ = writer.Close() }()

	if err := writer.WriteSelection(candidates); err != nil {
		return err
	}

	if err := writer.WriteBacktest(outcomes); err != nil {
		return err
	}

	if err := writer.WriteRunConfig(cfg); err != nil {
		return err
	}

	log.Info("backtest complete",
		zap.Int("candidates", len(candidates)),
		zap.String("report", writer.RunDir()))

	return nil
}

// schemaAction writes the JSON schema of the analysis configuration.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()

	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	schemaPath := cmd.String("output")
	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	return nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Path to a JSON array of ticker symbols",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "Path to the analysis configuration YAML",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Limit the number of tickers processed (0 = no cap)",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage:   fmt.Sprintf("Data provider to use (e.g., %s, %s)", marketdata.ProviderPolygon, marketdata.ProviderBinance),
			Value:   string(marketdata.ProviderPolygon),
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "Path to the price cache database",
			Value: "data/price_cache.duckdb",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Base directory for run reports",
			Value:   "reports",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "screener",
		Usage: "Screen stocks with technical indicators and backtest the recommendations",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Score tickers and report actionable recommendations",
				Flags: append(commonFlags(),
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "Analysis date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
				),
				Action: analyzeAction,
			},
			{
				Name:  "backtest",
				Usage: "Replay recommendations over a historical window",
				Flags: append(commonFlags(),
					&cli.TimestampFlag{
						Name:     "start",
						Aliases:  []string{"s"},
						Usage:    "Window start in `YYYY-MM-DD` format",
						Required: true,
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "Window end in `YYYY-MM-DD` format. Defaults to yesterday.",
						Value:   time.Now().AddDate(0, 0, -1),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
				),
				Action: backtestAction,
			},
			{
				Name:  "schema",
				Usage: "Generate the JSON schema of the analysis configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the schema to",
						Value:   "config/analysis-config.json",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
