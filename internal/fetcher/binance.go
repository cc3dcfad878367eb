package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/jpillora/backoff"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/monitoring"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// Binance error codes for request-weight and order-rate violations
const (
	binanceCodeTooManyRequests = -1003
	binanceCodeRateLimit       = -1015
)

// BinanceDownloader fetches spot klines through the public Binance API.
// No API key is needed for market data.
type BinanceDownloader struct {
	client *binance.Client
	opts   Options
}

// NewBinanceDownloader creates a Binance downloader.
func NewBinanceDownloader(opts Options) *BinanceDownloader {
	return &BinanceDownloader{
		client: binance.NewClient("", ""),
		opts:   opts.withDefaults(),
	}
}

// Name returns the exchange name.
func (d *BinanceDownloader) Name() string {
	return "binance"
}

// SetBaseURL points the client at a different API host.
func (d *BinanceDownloader) SetBaseURL(url string) {
	d.client.BaseURL = url
}

// Download pages through the kline endpoint from req.Start to req.End
// and returns candles in ascending open-time order. A rate-limit
// rejection retries the same page after a growing backoff; any other
// API failure aborts. A page that comes back short while the span is
// clearly unfinished aborts too, because a silent gap would corrupt
// every simulation built on the file.
func (d *BinanceDownloader) Download(ctx context.Context, req Request) ([]types.OHLCV, error) {
	interval, err := IntervalDuration(req.Interval)
	if err != nil {
		return nil, err
	}

	endCap := effectiveEnd(req.End, time.Now())
	startMs := req.Start.UnixMilli()
	endMs := req.End.UnixMilli()

	var candles []types.OHLCV

	for startMs < endMs {
		klines, err := d.fetchPage(ctx, req, startMs, endMs)
		if err != nil {
			monitoring.RecordError("binance_fetch")
			return nil, err
		}

		if len(klines) == 0 {
			if shortPage(time.UnixMilli(startMs), endCap, interval) {
				monitoring.RecordError("binance_short_page")
				return nil, fmt.Errorf("binance returned no data for %s from %s with %s still to cover",
					req.Symbol, time.UnixMilli(startMs).Format(time.RFC3339), endCap.Sub(time.UnixMilli(startMs)))
			}
			break
		}

		for _, k := range klines {
			if k.OpenTime < startMs || k.OpenTime >= endMs {
				continue
			}
			candle, err := klineToOHLCV(k)
			if err != nil {
				return nil, err
			}
			candles = append(candles, candle)
		}

		lastOpen := klines[len(klines)-1].OpenTime
		monitoring.RecordCandles(d.Name(), req.Symbol, req.Interval, len(klines), lastOpen)

		if len(klines) < d.opts.PageSize {
			if shortPage(time.UnixMilli(lastOpen), endCap, interval) {
				monitoring.RecordError("binance_short_page")
				return nil, fmt.Errorf("binance returned %d of %d rows for %s at %s, %s before requested end",
					len(klines), d.opts.PageSize, req.Symbol,
					time.UnixMilli(lastOpen).Format(time.RFC3339), endCap.Sub(time.UnixMilli(lastOpen)))
			}
			break
		}

		startMs = lastOpen + 1

		if err := sleepCtx(ctx, d.opts.PageDelay); err != nil {
			return nil, err
		}
	}

	return candles, nil
}

// fetchPage requests one page, retrying after backoff when the API
// reports a rate-limit violation. The same page is always retried;
// skipping ahead would leave a hole.
func (d *BinanceDownloader) fetchPage(ctx context.Context, req Request, startMs, endMs int64) ([]*binance.Kline, error) {
	wait := &backoff.Backoff{
		Min:    d.opts.RateLimitBackoff,
		Max:    time.Minute,
		Factor: 2,
	}

	for attempt := 0; ; attempt++ {
		monitoring.RecordFetchRequest(d.Name(), req.Symbol)

		klines, err := d.client.NewKlinesService().
			Symbol(req.Symbol).
			Interval(req.Interval).
			StartTime(startMs).
			EndTime(endMs).
			Limit(d.opts.PageSize).
			Do(ctx)
		if err == nil {
			return klines, nil
		}

		if !isBinanceRateLimit(err) {
			return nil, fmt.Errorf("binance request failed: %w", err)
		}

		if attempt >= d.opts.MaxRetries {
			return nil, fmt.Errorf("binance rate limit persisted after %d retries: %w", attempt, err)
		}

		monitoring.RecordFetchRetry(d.Name(), req.Symbol)
		if err := sleepCtx(ctx, wait.Duration()); err != nil {
			return nil, err
		}
	}
}

func isBinanceRateLimit(err error) bool {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == binanceCodeTooManyRequests || apiErr.Code == binanceCodeRateLimit
}

func klineToOHLCV(k *binance.Kline) (types.OHLCV, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid open price %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid high price %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid low price %q: %w", k.Low, err)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid close price %q: %w", k.Close, err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid volume %q: %w", k.Volume, err)
	}

	return types.OHLCV{
		Timestamp: time.UnixMilli(k.OpenTime).UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}
