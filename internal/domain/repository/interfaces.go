package repository

import (
	"context"
	"time"

	"PulseWatch/internal/domain/models"
)

// EventSource is an asynchronous stream of anomaly events for one market.
// The timer-driven simulator and the detector push client both satisfy it.
type EventSource interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, market models.Market) error
	Read(ctx context.Context) (<-chan *models.AnomalyEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher mirrors accepted anomaly events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, ev *models.AnomalyEvent) error
	PublishBatch(ctx context.Context, evs []*models.AnomalyEvent) error
	Close() error
}

// Archive persists accepted anomaly events for historical queries.
type Archive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, ev *models.AnomalyEvent) error
	StoreBatch(ctx context.Context, evs []*models.AnomalyEvent) error
	Query(ctx context.Context, market models.Market, from, to time.Time, limit int) ([]*models.AnomalyEvent, error)
	Health(ctx context.Context) error
	Close() error
}

// PageFetcher fetches one page of a cursor-paginated feed. A nil cursor
// requests the first page.
type PageFetcher interface {
	FetchPage(ctx context.Context, filters models.FeedFilters, cursor *string, size int) (*models.FeedPage, error)
}

// Metrics records operational counters for the pipeline.
type Metrics interface {
	RecordEvent(market, typ, severity string)
	RecordError(kind string)
	RecordFeedDepth(market string, depth int)
	RecordLatency(op string, seconds float64)
}
