package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// Request describes one candle download: a symbol, an interval, and a
// time span. Spans longer than one API page are fetched in batches.
type Request struct {
	Symbol   string
	Interval string
	Start    time.Time
	End      time.Time
}

// Options tunes the paging behavior. Zero values fall back to defaults.
type Options struct {
	// Rows per API page, capped by the exchanges at 1000
	PageSize int
	// Fixed pause between consecutive pages
	PageDelay time.Duration
	// Initial wait after a rate-limit rejection; doubles per retry
	RateLimitBackoff time.Duration
	// Give up after this many rate-limit retries of the same page
	MaxRetries int
}

const (
	DefaultPageSize         = 1000
	DefaultPageDelay        = 100 * time.Millisecond
	DefaultRateLimitBackoff = 2 * time.Second
	DefaultMaxRetries       = 5
)

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 || o.PageSize > 1000 {
		o.PageSize = DefaultPageSize
	}
	if o.PageDelay <= 0 {
		o.PageDelay = DefaultPageDelay
	}
	if o.RateLimitBackoff <= 0 {
		o.RateLimitBackoff = DefaultRateLimitBackoff
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	return o
}

// Downloader pages through a remote candle API and returns one ordered
// table covering the requested span.
type Downloader interface {
	Name() string
	Download(ctx context.Context, req Request) ([]types.OHLCV, error)
}

// IntervalDuration converts an interval string to its duration.
// Accepts Binance-style suffixed intervals (1m, 1h, 4h, 1d, 1w) and
// Bybit-style minute counts (1, 60, 240, D, W, M).
func IntervalDuration(interval string) (time.Duration, error) {
	interval = strings.TrimSpace(interval)
	if interval == "" {
		return 0, fmt.Errorf("empty interval")
	}

	switch strings.ToUpper(interval) {
	case "D":
		return 24 * time.Hour, nil
	case "W":
		return 7 * 24 * time.Hour, nil
	case "M":
		return 30 * 24 * time.Hour, nil
	}

	if minutes, err := strconv.Atoi(interval); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}

	numStr := interval[:len(interval)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", interval)
	}

	switch strings.ToLower(interval[len(interval)-1:]) {
	case "m":
		return time.Duration(num) * time.Minute, nil
	case "h":
		return time.Duration(num) * time.Hour, nil
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid interval %q", interval)
	}
}

// shortPage reports whether a page that came back with fewer rows than
// requested is suspicious: short pages are legitimate only near the end
// of the requested span (or near the present, when the span runs into
// the future). A short page with more than two full intervals still to
// cover means the API silently dropped data, and gaps are not
// acceptable.
func shortPage(lastOpen, effectiveEnd time.Time, interval time.Duration) bool {
	return effectiveEnd.Sub(lastOpen) > 2*interval
}

// effectiveEnd caps the requested end at the present: exchanges cannot
// return candles that have not opened yet.
func effectiveEnd(end, now time.Time) time.Time {
	if end.After(now) {
		return now
	}
	return end
}

// sleepCtx pauses for d, or returns early with the context error.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
