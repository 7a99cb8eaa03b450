package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rogersacchelli/stock-analysis/internal/logger"
	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
	"go.uber.org/zap"
)

// defaultFetchTimeout bounds a single provider download.
const defaultFetchTimeout = 30 * time.Second

// Fetcher is the interface the analysis and backtest engines consume.
type Fetcher interface {
	// Fetch returns the daily price series for the ticker in [start, end].
	// An empty provider result is a no-data error, never an empty series.
	Fetch(ctx context.Context, ticker string, start, end time.Time) (*types.PriceSeries, error)
}

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	Provider      ProviderType  `validate:"required,oneof=polygon binance"`
	CachePath     string        `validate:"required"`
	PolygonAPIKey string        `validate:"required_if=Provider polygon"`
	FetchTimeout  time.Duration `validate:"gte=0"`
}

// Client fetches price history through a provider with an on-disk cache in
// front of it.
type Client struct {
	provider Provider
	cache    Cache
	config   ClientConfig
	logger   *logger.Logger
}

// NewClient creates a market data client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid market data client configuration", err)
	}

	if config.FetchTimeout == 0 {
		config.FetchTimeout = defaultFetchTimeout
	}

	provider, err := NewProvider(config.Provider, config.PolygonAPIKey)
	if err != nil {
		return nil, err
	}

	cache, err := NewDuckDBCache(config.CachePath, log)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: provider,
		cache:    cache,
		config:   config,
		logger:   log,
	}, nil
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, ticker string, start, end time.Time) (*types.PriceSeries, error) {
	if bars, hit, err := c.cache.Get(ticker, start, end); err != nil {
		c.logger.Warn("cache read failed, falling back to download",
			zap.String("ticker", ticker), zap.Error(err))
	} else if hit {
		return types.NewPriceSeries(ticker, bars)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.config.FetchTimeout)
	defer cancel()

	bars, err := c.provider.FetchDailyBars(fetchCtx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no data available for ticker %s", ticker)
	}

	if err := c.cache.Put(ticker, start, end, bars); err != nil {
		// A failed cache write only costs a future re-download.
		c.logger.Warn("failed to cache downloaded bars",
			zap.String("ticker", ticker), zap.Error(err))
	}

	return types.NewPriceSeries(ticker, bars)
}

// Close releases the cache resources.
func (c *Client) Close() error {
	return c.cache.Close()
}
