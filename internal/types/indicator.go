package types

type IndicatorType string

const (
	IndicatorTypeMACross        IndicatorType = "ma_cross"
	IndicatorTypeLongTermMA     IndicatorType = "long_term_ma"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeWeekRule       IndicatorType = "week_rule"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeStochastic     IndicatorType = "stochastic"
)

// AllIndicatorTypes lists every scoring indicator in report column order.
var AllIndicatorTypes = []IndicatorType{
	IndicatorTypeMACross,
	IndicatorTypeLongTermMA,
	IndicatorTypeBollingerBands,
	IndicatorTypeWeekRule,
	IndicatorTypeMACD,
	IndicatorTypeRSI,
	IndicatorTypeStochastic,
}
