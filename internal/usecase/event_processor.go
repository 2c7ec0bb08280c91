package usecase

import (
	"context"
	"fmt"
	"time"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"
)

// EventProcessor accepts anomaly events into the live feed and mirrors them
// to the configured sink backend. Accept and Mirror are split so a failed
// mirror can be retried without appending the event to the feed twice.
type EventProcessor struct {
	feed    *AnomalyFeed
	pub     drepo.Publisher
	archive drepo.Archive
	metrics drepo.Metrics
	backend string
}

// NewEventProcessor creates a processor. backend selects the sink:
// "kafka", "clickhouse", or "none".
func NewEventProcessor(
	feed *AnomalyFeed,
	pub drepo.Publisher,
	archive drepo.Archive,
	metrics drepo.Metrics,
	backend string,
) *EventProcessor {
	return &EventProcessor{
		feed:    feed,
		pub:     pub,
		archive: archive,
		metrics: metrics,
		backend: backend,
	}
}

// Accept appends one event to the feed, which drives the notification
// watcher in the same step. It is called exactly once per event.
func (p *EventProcessor) Accept(ev *models.AnomalyEvent) {
	if ev == nil {
		return
	}
	p.feed.Append(ev)
	p.metrics.RecordEvent(string(ev.Market), string(ev.Type), string(ev.Severity))
	p.metrics.RecordFeedDepth(string(ev.Market), p.feed.Len(ev.Market))
}

// Mirror forwards an already-accepted event to the sink backend. Safe to
// retry: the sinks key on the event id.
func (p *EventProcessor) Mirror(ctx context.Context, ev *models.AnomalyEvent) error {
	if ev == nil {
		return fmt.Errorf("event is nil")
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, ev)
	case "clickhouse":
		err = p.archive.Store(ctx, ev)
	case "", "none":
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("mirror")
		return fmt.Errorf("mirror event: %w", err)
	}

	p.metrics.RecordLatency("mirror", time.Since(start).Seconds())
	return nil
}

// Close closes underlying sink resources if available.
func (p *EventProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.archive != nil {
		_ = p.archive.Close()
	}
}
