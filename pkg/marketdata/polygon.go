package marketdata

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// PolygonProvider downloads daily aggregates from Polygon.io.
type PolygonProvider struct {
	client *polygon.Client
}

// NewPolygonProvider creates a Polygon provider with the given API key.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an API key")
	}

	return &PolygonProvider{client: polygon.New(apiKey)}, nil
}

// FetchDailyBars implements Provider.
func (p *PolygonProvider) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]types.PriceBar, error) {
	params := models.ListAggsParams{
		Ticker:     ticker,
		From:       models.Millis(start),
		To:         models.Millis(end.Add(24*time.Hour - time.Second)),
		Multiplier: 1,
		Timespan:   models.Day,
	}

	iter := p.client.ListAggs(ctx, &params)

	var bars []types.PriceBar

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.PriceBar{
			Symbol: ticker,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "polygon download failed for %s", ticker)
	}

	return bars, nil
}
