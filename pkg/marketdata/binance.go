package marketdata

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// binancePageSize is the kline page limit of the Binance public API.
const binancePageSize = 500

// BinanceProvider downloads daily klines from Binance. The public market
// data API does not require authentication.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a Binance provider.
func NewBinanceProvider() (*BinanceProvider, error) {
	return &BinanceProvider{client: binance.NewClient("", "")}, nil
}

// FetchDailyBars implements Provider. Pagination follows the close time of
// the last kline of each page to avoid duplicates.
func (b *BinanceProvider) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]types.PriceBar, error) {
	startMillis := start.UnixMilli()
	endMillis := end.Add(24*time.Hour - time.Second).UnixMilli()

	var bars []types.PriceBar

	for {
		klines, err := b.client.NewKlinesService().
			Symbol(ticker).
			Interval("1d").
			StartTime(startMillis).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "binance download failed for %s", ticker)
		}

		for _, k := range klines {
			bar, err := klineToBar(ticker, k)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if len(klines) < binancePageSize {
			break
		}

		startMillis = klines[len(klines)-1].CloseTime + 1
		if startMillis >= endMillis {
			break
		}
	}

	return bars, nil
}

func klineToBar(ticker string, k *binance.Kline) (types.PriceBar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad open price for %s", ticker)
	}

	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad high price for %s", ticker)
	}

	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad low price for %s", ticker)
	}

	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad close price for %s", ticker)
	}

	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "bad volume for %s", ticker)
	}

	return types.PriceBar{
		Symbol: ticker,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
