package marketdata

import (
	"context"
	"time"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// Provider downloads daily price history for one ticker.
type Provider interface {
	// FetchDailyBars downloads daily bars for the ticker in [start, end].
	// The context can be used to cancel or time out the download.
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]types.PriceBar, error)
}

// NewProvider creates a market data provider based on the provider type.
func NewProvider(providerType ProviderType, polygonAPIKey string) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		return NewPolygonProvider(polygonAPIKey)
	case ProviderBinance:
		return NewBinanceProvider()
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
