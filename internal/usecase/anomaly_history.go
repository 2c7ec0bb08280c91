package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"
	"PulseWatch/pkg/cache"
)

// AnomalyHistory serves historical anomaly queries from the archive, with a
// short cache-aside layer over the query results.
type AnomalyHistory struct {
	archive  drepo.Archive
	cache    cache.Service
	cacheTTL time.Duration
}

// NewAnomalyHistory creates a history reader. cache may be nil to disable
// caching.
func NewAnomalyHistory(archive drepo.Archive, c cache.Service, ttl time.Duration) *AnomalyHistory {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AnomalyHistory{archive: archive, cache: c, cacheTTL: ttl}
}

// Query returns archived events for the market within [from, to].
func (h *AnomalyHistory) Query(ctx context.Context, market models.Market, from, to time.Time, limit int) ([]*models.AnomalyEvent, error) {
	if h.archive == nil {
		return nil, fmt.Errorf("anomaly archive not configured")
	}

	key := cache.GenerateKeyWithParams("history", market, from.Unix(), to.Unix(), limit)
	if h.cache != nil {
		var raw string
		if err := h.cache.Get(ctx, key, &raw); err == nil {
			var events []*models.AnomalyEvent
			if err := json.Unmarshal([]byte(raw), &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := h.archive.Query(ctx, market, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(events); err == nil {
			_ = h.cache.Set(ctx, key, string(b), h.cacheTTL)
		}
	}
	return events, nil
}
