package usecase

import (
	"sync"

	"PulseWatch/internal/domain/models"
)

// MarketStateStore holds the selected market and time range. It is a single
// mutable cell constructed once per process and injected into consumers;
// every downstream component re-derives from the current value on read.
type MarketStateStore struct {
	mu    sync.RWMutex
	state models.MarketState
}

// NewMarketStateStore creates the store with its initial selection.
func NewMarketStateStore(market models.Market, rng models.TimeRange) *MarketStateStore {
	return &MarketStateStore{state: models.MarketState{Market: market, TimeRange: rng}}
}

// Get returns the current selection.
func (s *MarketStateStore) Get() models.MarketState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetMarket replaces the selected market. Enum membership is a caller
// contract; values are validated at the HTTP boundary.
func (s *MarketStateStore) SetMarket(m models.Market) {
	s.mu.Lock()
	s.state.Market = m
	s.mu.Unlock()
}

// SetTimeRange replaces the selected time range.
func (s *MarketStateStore) SetTimeRange(r models.TimeRange) {
	s.mu.Lock()
	s.state.TimeRange = r
	s.mu.Unlock()
}
