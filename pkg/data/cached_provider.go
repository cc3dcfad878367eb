package data

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/pongsakorn-w/crypto-dca-lab/pkg/types"
)

// MemoryCache implements DataCache with a mutex-guarded map. Get and
// Set copy the candle slice both ways so callers can never mutate a
// cached table.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]types.OHLCV
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]types.OHLCV)}
}

// Get retrieves a copy of the cached candles for key, if present
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candles, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]types.OHLCV, len(candles))
	copy(out, candles)
	return out, true
}

// Set stores a copy of the candles under key
func (c *MemoryCache) Set(key string, candles []types.OHLCV) {
	cached := make([]types.OHLCV, len(candles))
	copy(cached, candles)

	c.mu.Lock()
	c.entries[key] = cached
	c.mu.Unlock()
}

// Clear removes all cached entries
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]types.OHLCV)
	c.mu.Unlock()
}

// Size returns the number of cached entries
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachedProvider wraps another DataProvider so that repeated loads of
// the same candle file are served from memory. The comparator runs two
// strategies over one file; only the first run touches disk.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
}

// NewCachedProvider creates a cached provider backed by a MemoryCache
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return &CachedProvider{provider: provider, cache: NewMemoryCache()}
}

// NewCachedProviderWithCache creates a cached provider with a custom cache
func NewCachedProviderWithCache(provider DataProvider, cache DataCache) *CachedProvider {
	return &CachedProvider{provider: provider, cache: cache}
}

// GetName returns the underlying provider's name with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// LoadData returns the cached table for source, loading and caching it
// on the first request.
func (p *CachedProvider) LoadData(source string) ([]types.OHLCV, error) {
	if candles, ok := p.cache.Get(source); ok {
		return candles, nil
	}

	log.Printf("🔄 Loading historical data from %s", filepath.Base(source))
	candles, err := p.provider.LoadData(source)
	if err != nil {
		log.Printf("❌ Failed to load data from %s: %v", filepath.Base(source), err)
		return nil, err
	}
	p.cache.Set(source, candles)

	log.Printf("✅ Loaded and cached %d candles from %s", len(candles), filepath.Base(source))
	return candles, nil
}

// ValidateData validates data using the underlying provider
func (p *CachedProvider) ValidateData(candles []types.OHLCV) error {
	return p.provider.ValidateData(candles)
}

// ClearCache drops every cached table
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// GetCacheSize returns the number of cached entries
func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}
