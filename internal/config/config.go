package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// IndicatorToggle carries the fields shared by every indicator entry.
type IndicatorToggle struct {
	Enabled bool    `yaml:"enabled" json:"enabled" jsonschema:"title=Enabled,description=Whether the indicator participates in scoring"`
	Weight  float64 `yaml:"weight" json:"weight" validate:"gte=0" jsonschema:"title=Weight,description=Non-negative weight in the composite score,minimum=0"`
	// OutputWindow is how many calendar days back a signal may have
	// occurred and still count as current in selection mode.
	OutputWindow int `yaml:"output_window" json:"output_window" validate:"gte=0" jsonschema:"title=Output Window,description=Days back a signal still counts as current,minimum=0"`
}

// MACrossConfig configures the short/long moving-average cross.
type MACrossConfig struct {
	IndicatorToggle `yaml:",inline"`

	Short       int    `yaml:"short" json:"short" validate:"gte=0"`
	Long        int    `yaml:"long" json:"long" validate:"gte=0"`
	AverageType string `yaml:"average_type" json:"average_type" validate:"omitempty,oneof=sma ema"`
}

// LongTermMAConfig configures the single long-period average cross.
type LongTermMAConfig struct {
	IndicatorToggle `yaml:",inline"`

	Period      int    `yaml:"period" json:"period" validate:"gte=0"`
	AverageType string `yaml:"average_type" json:"average_type" validate:"omitempty,oneof=sma ema"`
}

// BollingerConfig configures the Bollinger Bands touch detection.
type BollingerConfig struct {
	IndicatorToggle `yaml:",inline"`

	Period int     `yaml:"period" json:"period" validate:"gte=0"`
	StdDev float64 `yaml:"std_dev" json:"std_dev" validate:"gte=0"`
}

// WeekRuleConfig configures the Williams week-rule breakout.
type WeekRuleConfig struct {
	IndicatorToggle `yaml:",inline"`

	Weeks int `yaml:"weeks" json:"weeks" validate:"gte=0"`
}

// MACDConfig configures the MACD/signal-line cross.
type MACDConfig struct {
	IndicatorToggle `yaml:",inline"`

	Short  int `yaml:"short" json:"short" validate:"gte=0"`
	Long   int `yaml:"long" json:"long" validate:"gte=0"`
	Signal int `yaml:"signal" json:"signal" validate:"gte=0"`
}

// RSIConfig configures the RSI thresholds.
type RSIConfig struct {
	IndicatorToggle `yaml:",inline"`

	Period int     `yaml:"period" json:"period" validate:"gte=0"`
	Lower  float64 `yaml:"lower" json:"lower" validate:"gte=0,lte=100"`
	Upper  float64 `yaml:"upper" json:"upper" validate:"gte=0,lte=100"`
}

// StochasticConfig configures the %K/%D oscillator cross.
type StochasticConfig struct {
	IndicatorToggle `yaml:",inline"`

	KPeriod int `yaml:"k_period" json:"k_period" validate:"gte=0"`
	DPeriod int `yaml:"d_period" json:"d_period" validate:"gte=0"`
}

// TrendConfig groups the trend-following indicators.
type TrendConfig struct {
	MACross        MACrossConfig    `yaml:"ma_cross" json:"ma_cross"`
	LongTermMA     LongTermMAConfig `yaml:"long_term_ma" json:"long_term_ma"`
	BollingerBands BollingerConfig  `yaml:"bollinger_bands" json:"bollinger_bands"`
	WeekRule       WeekRuleConfig   `yaml:"week_rule" json:"week_rule"`
}

// MomentumConfig groups the momentum indicators.
type MomentumConfig struct {
	MACD       MACDConfig       `yaml:"macd" json:"macd"`
	RSI        RSIConfig        `yaml:"rsi" json:"rsi"`
	Stochastic StochasticConfig `yaml:"stochastic" json:"stochastic"`
}

// SlopeFilterConfig configures the MA-slope trend filter.
type SlopeFilterConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Period      int     `yaml:"period" json:"period" validate:"gte=0"`
	SlopePeriod int     `yaml:"slope_period" json:"slope_period" validate:"gte=0"`
	AverageType string  `yaml:"average_type" json:"average_type" validate:"omitempty,oneof=sma ema"`
	// Min discards buy signals when the slope is below it.
	Min float64 `yaml:"min" json:"min"`
	// Max discards sell signals when the slope is above it.
	Max float64 `yaml:"max" json:"max"`
}

// ADXFilterConfig configures the ADX/±DI buy filter.
type ADXFilterConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Period  int  `yaml:"period" json:"period" validate:"gte=0"`
	// ADXMin rejects buy signals when ADX is below it.
	ADXMin float64 `yaml:"adx_min" json:"adx_min" validate:"gte=0"`
	// PlusDIMin rejects buy signals when +DI is below it.
	PlusDIMin float64 `yaml:"plus_di_min" json:"plus_di_min" validate:"gte=0"`
	// MinusDIMax rejects buy signals when -DI is above it.
	MinusDIMax float64 `yaml:"minus_di_max" json:"minus_di_max" validate:"gte=0"`
}

// FilterConfig groups the signal filters.
type FilterConfig struct {
	Slope SlopeFilterConfig `yaml:"slope" json:"slope"`
	ADX   ADXFilterConfig   `yaml:"adx" json:"adx"`
}

// StopConfig configures the stop-loss overlay of the backtest.
type StopConfig struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Margin  float64 `yaml:"margin" json:"margin" validate:"gte=0,lte=1" jsonschema:"title=Margin,description=Adverse move fraction that triggers the stop,minimum=0,maximum=1"`
}

// RiskConfig groups risk management settings.
type RiskConfig struct {
	Stop StopConfig `yaml:"stop" json:"stop"`
}

// ThresholdConfig holds the composite-score decision thresholds.
type ThresholdConfig struct {
	Buy  float64 `yaml:"buy" json:"buy" jsonschema:"title=Buy Threshold"`
	Sell float64 `yaml:"sell" json:"sell" jsonschema:"title=Sell Threshold"`
}

// BacktestConfig holds backtest policy settings.
type BacktestConfig struct {
	// InvertRecommendation makes the walk search for the direction
	// opposite to the selection-time recommendation, looking for the
	// mirrored confirming event. When false the walk searches for the
	// same direction.
	InvertRecommendation bool `yaml:"invert_recommendation" json:"invert_recommendation"`
}

// Config is the full, typed analysis setup. Missing or misspelled keys are
// load-time errors, not runtime surprises mid-batch.
type Config struct {
	// PeriodDays is the selection window in calendar days.
	PeriodDays int             `yaml:"period_days" json:"period_days" validate:"gt=0" jsonschema:"title=Period Days,description=Selection window in calendar days,minimum=1"`
	Thresholds ThresholdConfig `yaml:"thresholds" json:"thresholds"`
	Trend      TrendConfig     `yaml:"trend" json:"trend"`
	Momentum   MomentumConfig  `yaml:"momentum" json:"momentum"`
	Filters    FilterConfig    `yaml:"filters" json:"filters"`
	Risk       RiskConfig      `yaml:"risk" json:"risk"`
	Backtest   BacktestConfig  `yaml:"backtest" json:"backtest"`
}

// Default returns the configuration used when keys are absent from the
// loaded file.
func Default() Config {
	return Config{
		PeriodDays: 365,
		Thresholds: ThresholdConfig{Buy: 0.5, Sell: -0.5},
		Trend: TrendConfig{
			MACross:        MACrossConfig{IndicatorToggle: IndicatorToggle{Enabled: true, Weight: 1.0, OutputWindow: 5}, Short: 20, Long: 50, AverageType: "sma"},
			LongTermMA:     LongTermMAConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, Period: 200, AverageType: "sma"},
			BollingerBands: BollingerConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, Period: 20, StdDev: 2.0},
			WeekRule:       WeekRuleConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, Weeks: 4},
		},
		Momentum: MomentumConfig{
			MACD:       MACDConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, Short: 12, Long: 26, Signal: 9},
			RSI:        RSIConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, Period: 14, Lower: 30, Upper: 70},
			Stochastic: StochasticConfig{IndicatorToggle: IndicatorToggle{Weight: 1.0, OutputWindow: 5}, KPeriod: 14, DPeriod: 3},
		},
		Filters: FilterConfig{
			Slope: SlopeFilterConfig{Period: 20, SlopePeriod: 5, AverageType: "sma", Min: 0, Max: 0},
			ADX:   ADXFilterConfig{Period: 14, ADXMin: 20, PlusDIMin: 0, MinusDIMax: 100},
		},
		Risk:     RiskConfig{Stop: StopConfig{Margin: 0.05}},
		Backtest: BacktestConfig{InvertRecommendation: true},
	}
}

// Load reads, parses and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(raw)
}

// Parse parses and validates YAML configuration bytes on top of defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on configurations that must abort the run before any
// ticker is processed.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.Thresholds.Buy <= c.Thresholds.Sell {
		return errors.Newf(errors.ErrCodeInvalidThreshold,
			"buy threshold %.2f must be above sell threshold %.2f", c.Thresholds.Buy, c.Thresholds.Sell)
	}

	if len(c.EnabledWeights()) == 0 {
		return errors.New(errors.ErrCodeNoIndicatorsEnabled, "at least one indicator must be enabled")
	}

	if c.Risk.Stop.Enabled && (c.Risk.Stop.Margin <= 0 || c.Risk.Stop.Margin >= 1) {
		return errors.Newf(errors.ErrCodeInvalidStopMargin,
			"stop margin must be a fraction in (0, 1), got %f", c.Risk.Stop.Margin)
	}

	return nil
}

// EnabledWeights returns the weight of every enabled indicator. Indicators
// lacking a computed signal still count toward the score denominator.
func (c *Config) EnabledWeights() map[types.IndicatorType]float64 {
	weights := make(map[types.IndicatorType]float64)

	if c.Trend.MACross.Enabled {
		weights[types.IndicatorTypeMACross] = c.Trend.MACross.Weight
	}

	if c.Trend.LongTermMA.Enabled {
		weights[types.IndicatorTypeLongTermMA] = c.Trend.LongTermMA.Weight
	}

	if c.Trend.BollingerBands.Enabled {
		weights[types.IndicatorTypeBollingerBands] = c.Trend.BollingerBands.Weight
	}

	if c.Trend.WeekRule.Enabled {
		weights[types.IndicatorTypeWeekRule] = c.Trend.WeekRule.Weight
	}

	if c.Momentum.MACD.Enabled {
		weights[types.IndicatorTypeMACD] = c.Momentum.MACD.Weight
	}

	if c.Momentum.RSI.Enabled {
		weights[types.IndicatorTypeRSI] = c.Momentum.RSI.Weight
	}

	if c.Momentum.Stochastic.Enabled {
		weights[types.IndicatorTypeStochastic] = c.Momentum.Stochastic.Weight
	}

	return weights
}

// OutputWindow returns the configured output window for an indicator.
func (c *Config) OutputWindow(name types.IndicatorType) int {
	switch name {
	case types.IndicatorTypeMACross:
		return c.Trend.MACross.OutputWindow
	case types.IndicatorTypeLongTermMA:
		return c.Trend.LongTermMA.OutputWindow
	case types.IndicatorTypeBollingerBands:
		return c.Trend.BollingerBands.OutputWindow
	case types.IndicatorTypeWeekRule:
		return c.Trend.WeekRule.OutputWindow
	case types.IndicatorTypeMACD:
		return c.Momentum.MACD.OutputWindow
	case types.IndicatorTypeRSI:
		return c.Momentum.RSI.OutputWindow
	case types.IndicatorTypeStochastic:
		return c.Momentum.Stochastic.OutputWindow
	default:
		return 0
	}
}
