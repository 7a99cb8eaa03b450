package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidStopMargin    ErrorCode = 104
	ErrCodeInvalidWeight        ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106
	ErrCodeInvalidAverageType   ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeNoDataFound      ErrorCode = 200
	ErrCodeQueryFailed      ErrorCode = 201
	ErrCodeCacheUnavailable ErrorCode = 202
	ErrCodeSeriesNotOrdered ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeInsufficientData       ErrorCode = 303

	// Analysis errors (400-499)
	ErrCodeNoIndicatorsEnabled ErrorCode = 400
	ErrCodeScoreUndefined      ErrorCode = 401

	// Backtest errors (500-599)
	ErrCodeBacktestWindowInvalid ErrorCode = 500
	ErrCodeBacktestNoCandidates  ErrorCode = 501

	// Market data errors (600-699)
	ErrCodeMarketDataFetchFailed ErrorCode = 600
	ErrCodeMarketDataParseFailed ErrorCode = 601
	ErrCodeInvalidProvider       ErrorCode = 602

	// Report errors (700-799)
	ErrCodeReportWriteFailed ErrorCode = 700
)
