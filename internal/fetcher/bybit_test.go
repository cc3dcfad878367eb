package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bybitTestServer serves daily candles covering [dataStart, dataEnd)
// newest-first, honoring the end/limit query parameters.
func bybitTestServer(t *testing.T, dataStartMs, dataEndMs int64, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		require.Equal(t, "/v5/market/kline", r.URL.Path)

		endParam, err := strconv.ParseInt(r.URL.Query().Get("end"), 10, 64)
		require.NoError(t, err)
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)

		// Newest candle at or before the end parameter
		openMs := (endParam / dayMs) * dayMs
		if openMs >= dataEndMs {
			openMs = dataEndMs - dayMs
		}

		var rows []string
		for len(rows) < limit && openMs >= dataStartMs {
			rows = append(rows, fmt.Sprintf(`["%d","100","101","99","100","1000","100000"]`, openMs))
			openMs -= dayMs
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"retCode":0,"retMsg":"OK","result":{"category":"spot","symbol":"BTCUSDT","list":[%s]}}`,
			strings.Join(rows, ","))
	}))
}

func TestBybitDownloader_PaginatesBackwardsAndReturnsAscending(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 8)

	requests := 0
	server := bybitTestServer(t, start.UnixMilli(), end.UnixMilli(), &requests)
	defer server.Close()

	d := NewBybitDownloader("spot", testOptions())
	d.SetBaseURL(server.URL)

	candles, err := d.Download(context.Background(), Request{
		Symbol: "BTCUSDT", Interval: "D", Start: start, End: end,
	})
	require.NoError(t, err)

	assert.Len(t, candles, 8)
	assert.Greater(t, requests, 1)

	for i := 1; i < len(candles); i++ {
		assert.True(t, candles[i].Timestamp.After(candles[i-1].Timestamp),
			"candles must come back ascending")
	}
	assert.Equal(t, start, candles[0].Timestamp)
	assert.Equal(t, end.AddDate(0, 0, -1), candles[len(candles)-1].Timestamp)
}

func TestBybitDownloader_StopsAtListingDate(t *testing.T) {
	// Symbol listed 4 days after the requested start: the oldest page
	// comes back short and the fetch ends cleanly
	listing := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	start := listing.AddDate(0, 0, -4)
	end := listing.AddDate(0, 0, 5)

	requests := 0
	server := bybitTestServer(t, listing.UnixMilli(), end.UnixMilli(), &requests)
	defer server.Close()

	d := NewBybitDownloader("spot", testOptions())
	d.SetBaseURL(server.URL)

	candles, err := d.Download(context.Background(), Request{
		Symbol: "NEWUSDT", Interval: "D", Start: start, End: end,
	})
	require.NoError(t, err)

	assert.Len(t, candles, 5)
	assert.Equal(t, listing, candles[0].Timestamp)
}

func TestBybitDownloader_RetriesOnRateLimitCode(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		if requests == 1 {
			fmt.Fprint(w, `{"retCode":10006,"retMsg":"Too many visits!","result":{}}`)
			return
		}
		fmt.Fprintf(w, `{"retCode":0,"retMsg":"OK","result":{"category":"spot","symbol":"BTCUSDT","list":[["%d","100","101","99","100","1000","100000"],["%d","100","101","99","100","1000","100000"]]}}`,
			start.UnixMilli()+dayMs, start.UnixMilli())
	}))
	defer server.Close()

	d := NewBybitDownloader("spot", testOptions())
	d.SetBaseURL(server.URL)

	candles, err := d.Download(context.Background(), Request{
		Symbol: "BTCUSDT", Interval: "D", Start: start, End: end,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	assert.Len(t, candles, 2)
}

func TestBybitDownloader_APIErrorAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"retCode":10001,"retMsg":"params error","result":{}}`)
	}))
	defer server.Close()

	d := NewBybitDownloader("spot", testOptions())
	d.SetBaseURL(server.URL)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := d.Download(context.Background(), Request{
		Symbol: "BTCUSDT", Interval: "D", Start: start, End: start.AddDate(0, 0, 2),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "10001")
}
