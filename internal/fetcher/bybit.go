package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jpillora/backoff"

	"github.com/pongsakorn-w/crypto-dca-lab/internal/monitoring"
	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

const bybitAPIURL = "https://api.bybit.com"

// Bybit v5 retCode for rate-limit rejections
const bybitCodeRateLimit = 10006

// bybitResponse is the v5 market/kline envelope. Rows arrive newest
// first as string arrays: [startTime, open, high, low, close, volume,
// turnover].
type bybitResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string     `json:"category"`
		Symbol   string     `json:"symbol"`
		List     [][]string `json:"list"`
	} `json:"result"`
}

// BybitDownloader fetches klines through the public Bybit v5 API.
type BybitDownloader struct {
	baseURL  string
	category string
	client   *http.Client
	opts     Options
}

// NewBybitDownloader creates a Bybit downloader for the given market
// category (spot, linear, inverse).
func NewBybitDownloader(category string, opts Options) *BybitDownloader {
	if category == "" {
		category = "spot"
	}
	return &BybitDownloader{
		baseURL:  bybitAPIURL,
		category: category,
		client:   &http.Client{Timeout: 30 * time.Second},
		opts:     opts.withDefaults(),
	}
}

// Name returns the exchange name.
func (d *BybitDownloader) Name() string {
	return "bybit"
}

// SetBaseURL points the downloader at a different API host.
func (d *BybitDownloader) SetBaseURL(url string) {
	d.baseURL = url
}

// Download pages backwards through the kline endpoint (Bybit serves
// newest-first) and returns candles in ascending open-time order.
func (d *BybitDownloader) Download(ctx context.Context, req Request) ([]types.OHLCV, error) {
	if _, err := IntervalDuration(req.Interval); err != nil {
		return nil, err
	}

	endCap := effectiveEnd(req.End, time.Now())
	startMs := req.Start.UnixMilli()
	endMs := req.End.UnixMilli()
	currentEndMs := endCap.UnixMilli()
	if endMs < currentEndMs {
		currentEndMs = endMs
	}

	var descending []types.OHLCV

	for currentEndMs > startMs {
		rows, err := d.fetchPage(ctx, req, currentEndMs)
		if err != nil {
			monitoring.RecordError("bybit_fetch")
			return nil, err
		}

		if len(rows) == 0 {
			// Nothing older than currentEndMs: we walked past the
			// symbol's listing date
			break
		}

		oldestOpen := int64(0)
		for _, raw := range rows {
			candle, openTime, err := bybitRowToOHLCV(raw)
			if err != nil {
				return nil, err
			}
			if oldestOpen == 0 || openTime < oldestOpen {
				oldestOpen = openTime
			}
			if openTime >= startMs && openTime < endMs {
				descending = append(descending, candle)
			}
		}

		monitoring.RecordCandles(d.Name(), req.Symbol, req.Interval, len(rows), currentEndMs)

		if oldestOpen <= startMs {
			break
		}

		if len(rows) < d.opts.PageSize {
			// A short page while descending means the symbol's history
			// is exhausted: there is nothing older to fetch
			break
		}

		currentEndMs = oldestOpen - 1

		if err := sleepCtx(ctx, d.opts.PageDelay); err != nil {
			return nil, err
		}
	}

	// Reverse into ascending order
	for i, j := 0, len(descending)-1; i < j; i, j = i+1, j-1 {
		descending[i], descending[j] = descending[j], descending[i]
	}

	return descending, nil
}

func (d *BybitDownloader) fetchPage(ctx context.Context, req Request, endMs int64) ([][]string, error) {
	url := fmt.Sprintf("%s/v5/market/kline?category=%s&symbol=%s&interval=%s&end=%d&limit=%d",
		d.baseURL, d.category, req.Symbol, req.Interval, endMs, d.opts.PageSize)

	wait := &backoff.Backoff{
		Min:    d.opts.RateLimitBackoff,
		Max:    time.Minute,
		Factor: 2,
	}

	for attempt := 0; ; attempt++ {
		monitoring.RecordFetchRequest(d.Name(), req.Symbol)

		resp, retCode, err := d.doRequest(ctx, url)
		if err != nil {
			return nil, err
		}
		if retCode == 0 {
			return resp, nil
		}

		if retCode != bybitCodeRateLimit {
			return nil, fmt.Errorf("bybit API error %d", retCode)
		}

		if attempt >= d.opts.MaxRetries {
			return nil, fmt.Errorf("bybit rate limit persisted after %d retries", attempt)
		}

		monitoring.RecordFetchRetry(d.Name(), req.Symbol)
		if err := sleepCtx(ctx, wait.Duration()); err != nil {
			return nil, err
		}
	}
}

func (d *BybitDownloader) doRequest(ctx context.Context, url string) ([][]string, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, bybitCodeRateLimit, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed bybitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("JSON decode error: %w", err)
	}

	if parsed.RetCode != 0 {
		if parsed.RetCode == bybitCodeRateLimit {
			return nil, bybitCodeRateLimit, nil
		}
		return nil, 0, fmt.Errorf("bybit API error %d: %s", parsed.RetCode, parsed.RetMsg)
	}

	return parsed.Result.List, 0, nil
}

func bybitRowToOHLCV(raw []string) (types.OHLCV, int64, error) {
	if len(raw) < 6 {
		return types.OHLCV{}, 0, fmt.Errorf("malformed kline row with %d fields", len(raw))
	}

	openTime, err := strconv.ParseInt(raw[0], 10, 64)
	if err != nil {
		return types.OHLCV{}, 0, fmt.Errorf("invalid open time %q: %w", raw[0], err)
	}

	values := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(raw[i+1], 64)
		if err != nil {
			return types.OHLCV{}, 0, fmt.Errorf("invalid kline field %q: %w", raw[i+1], err)
		}
		values[i] = v
	}

	return types.OHLCV{
		Timestamp: time.UnixMilli(openTime).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, openTime, nil
}
