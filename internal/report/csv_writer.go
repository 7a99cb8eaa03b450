package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rogersacchelli/stock-analysis/internal/config"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// ResultWriter defines the interface for writing analysis results
type ResultWriter interface {
	// WriteSelection writes the retained tickers of a selection run
	WriteSelection(analyses []types.TickerAnalysis) error

	// WriteBacktest writes the outcomes of a backtest run
	WriteBacktest(outcomes []types.BacktestOutcome) error

	// WriteRunConfig writes the configuration the run was produced with
	WriteRunConfig(cfg *config.Config) error

	// RunDir returns the directory the run's files are written to
	RunDir() string

	// Close finalizes the writing process
	Close() error
}

// CSVWriter implements ResultWriter by writing to CSV files under a
// per-run directory. Rows are written in input order; callers control
// ticker ordering.
type CSVWriter struct {
	baseDir string
	runDir  string
	runID   string

	selectionFile *os.File
	signalsFile   *os.File
	backtestFile  *os.File

	selectionCsv *csv.Writer
	signalsCsv   *csv.Writer
	backtestCsv  *csv.Writer
}

// NewCSVWriter creates a new CSVWriter with the given base directory
func NewCSVWriter(baseDir string) (ResultWriter, error) {
	// Create a directory for this run using current timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	runDir := filepath.Join(baseDir, timestamp)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create run directory", err)
	}

	writer := &CSVWriter{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   uuid.New().String(),
	}

	if err := writer.initFiles(); err != nil {
		return nil, err
	}

	return writer, nil
}

// initFiles initializes all CSV files
func (w *CSVWriter) initFiles() error {
	selectionFile, err := os.Create(filepath.Join(w.runDir, "selection.csv"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create selection file", err)
	}
	w.selectionFile = selectionFile
	w.selectionCsv = csv.NewWriter(selectionFile)

	if err := w.selectionCsv.Write([]string{
		"symbol", "score", "recommendation", "anchor_date", "anchor_price",
	}); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write selection header", err)
	}

	signalsFile, err := os.Create(filepath.Join(w.runDir, "signals.csv"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create signals file", err)
	}
	w.signalsFile = signalsFile
	w.signalsCsv = csv.NewWriter(signalsFile)

	if err := w.signalsCsv.Write([]string{
		"symbol", "indicator", "direction", "date", "price",
	}); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write signals header", err)
	}

	backtestFile, err := os.Create(filepath.Join(w.runDir, "backtest.csv"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create backtest file", err)
	}
	w.backtestFile = backtestFile
	w.backtestCsv = csv.NewWriter(backtestFile)

	if err := w.backtestCsv.Write([]string{
		"symbol", "recommendation", "target", "anchor_date", "anchor_price",
		"exit_date", "exit_price", "score",
		"raw_gain_pct", "raw_period_days",
		"stopped", "stop_date", "effective_gain_pct", "effective_period_days",
	}); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write backtest header", err)
	}

	return nil
}

// WriteSelection writes the retained tickers plus one signal row per
// contributing indicator, preserving input order.
func (w *CSVWriter) WriteSelection(analyses []types.TickerAnalysis) error {
	for _, analysis := range analyses {
		record := []string{
			analysis.Symbol,
			formatFloat(analysis.Score),
			string(analysis.Recommendation),
			formatDate(analysis.Anchor.Date),
			formatFloat(analysis.Anchor.Price),
		}

		if err := w.selectionCsv.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write selection row", err)
		}

		for _, name := range types.AllIndicatorTypes {
			signal, ok := analysis.Signals[name]
			if !ok {
				continue
			}

			row := []string{
				analysis.Symbol,
				string(name),
				string(signal.Direction),
				formatDate(signal.Time),
				formatFloat(signal.Price),
			}

			if err := w.signalsCsv.Write(row); err != nil {
				return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write signal row", err)
			}
		}
	}

	w.selectionCsv.Flush()
	w.signalsCsv.Flush()

	if err := w.selectionCsv.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to flush selection file", err)
	}

	return w.signalsCsv.Error()
}

// WriteBacktest writes one row per candidate. Candidates whose walk never
// crossed a threshold keep their identifying columns and leave the result
// columns empty.
func (w *CSVWriter) WriteBacktest(outcomes []types.BacktestOutcome) error {
	for _, outcome := range outcomes {
		record := []string{
			outcome.Symbol,
			string(outcome.Recommendation),
			string(outcome.Target),
			formatDate(outcome.Anchor.Date),
			formatFloat(outcome.Anchor.Price),
		}

		if outcome.Result.IsSome() {
			result := outcome.Result.Unwrap()

			stopDate := ""
			if result.StopDate.IsSome() {
				stopDate = formatDate(result.StopDate.Unwrap())
			}

			record = append(record,
				formatDate(result.ExitDate),
				formatFloat(result.ExitPrice),
				formatFloat(result.Score),
				result.RawGainPct.StringFixed(4),
				formatInt(result.RawPeriodDays),
				formatBool(result.Stopped),
				stopDate,
				result.EffectiveGainPct.StringFixed(4),
				formatInt(result.EffectivePeriodDays),
			)
		} else {
			record = append(record, "", "", "", "", "", "", "", "", "")
		}

		if err := w.backtestCsv.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write backtest row", err)
		}
	}

	w.backtestCsv.Flush()

	return w.backtestCsv.Error()
}

// WriteRunConfig writes the run id and the effective configuration to a
// YAML file alongside the CSVs so results stay reproducible.
func (w *CSVWriter) WriteRunConfig(cfg *config.Config) error {
	runFile, err := os.Create(filepath.Join(w.runDir, "run.yaml"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to create run file", err)
	}
	defer runFile.Close()

	payload := struct {
		RunID     string        `yaml:"run_id"`
		CreatedAt time.Time     `yaml:"created_at"`
		Config    config.Config `yaml:"config"`
	}{
		RunID:     w.runID,
		CreatedAt: time.Now(),
		Config:    *cfg,
	}

	data, err := yaml.Marshal(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal run config", err)
	}

	if _, err := runFile.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write run config", err)
	}

	return nil
}

// RunDir returns the directory the run's files are written to.
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// Close finalizes the writing process
func (w *CSVWriter) Close() error {
	if w.selectionCsv != nil {
		w.selectionCsv.Flush()
	}
	if w.signalsCsv != nil {
		w.signalsCsv.Flush()
	}
	if w.backtestCsv != nil {
		w.backtestCsv.Flush()
	}

	if w.selectionFile != nil {
		w.selectionFile.Close()
	}
	if w.signalsFile != nil {
		w.signalsFile.Close()
	}
	if w.backtestFile != nil {
		w.backtestFile.Close()
	}

	return nil
}
