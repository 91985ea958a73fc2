package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StockSource resolves historical prices and display names for tickers.
type StockSource interface {
	PriceAt(ctx context.Context, ticker string, day time.Time) (float64, error)
	Name(ctx context.Context, ticker string) (string, error)
}

// RateSource resolves currency conversion rates.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// DefaultCacheTTL bounds how long a cached quote or rate is served before
// the upstream API is consulted again.
const DefaultCacheTTL = 5 * time.Minute

// Service fronts the market data sources with a TTL cache so repeated
// calculations against the same ticker and date don't hammer the upstream
// APIs.
type Service struct {
	stocks StockSource
	rates  RateSource
	ttl    time.Duration
	log    zerolog.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry

	now func() time.Time // overridable in tests
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// NewService creates a market data service. A non-positive ttl falls back to
// DefaultCacheTTL.
func NewService(stocks StockSource, rates RateSource, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		stocks:  stocks,
		rates:   rates,
		ttl:     ttl,
		log:     log.With().Str("service", "pricing").Logger(),
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// PriceAt returns the USD price of a ticker on (or just after) a day.
func (s *Service) PriceAt(ctx context.Context, ticker string, day time.Time) (float64, error) {
	key := fmt.Sprintf("price:%s:%s", ticker, day.Format("2006-01-02"))
	if v, ok := s.cached(key); ok {
		return v.(float64), nil
	}
	price, err := s.stocks.PriceAt(ctx, ticker, day)
	if err != nil {
		return 0, err
	}
	s.put(key, price)
	return price, nil
}

// Name returns a display name for a ticker.
func (s *Service) Name(ctx context.Context, ticker string) (string, error) {
	key := "name:" + ticker
	if v, ok := s.cached(key); ok {
		return v.(string), nil
	}
	name, err := s.stocks.Name(ctx, ticker)
	if err != nil {
		return "", err
	}
	s.put(key, name)
	return name, nil
}

// Rate returns the conversion rate between two currencies.
func (s *Service) Rate(ctx context.Context, from, to string) (float64, error) {
	key := fmt.Sprintf("rate:%s:%s", from, to)
	if v, ok := s.cached(key); ok {
		return v.(float64), nil
	}
	rate, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	s.put(key, rate)
	return rate, nil
}

func (s *Service) cached(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || s.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (s *Service) put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{value: value, expires: s.now().Add(s.ttl)}
}
