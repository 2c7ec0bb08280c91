package usecase

import (
	"context"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"
	mid "PulseWatch/internal/middleware"
)

// EventCollector consumes anomaly events from an EventSource and runs them
// through the pipeline into the feed and sinks.
type EventCollector struct {
	source  drepo.EventSource
	proc    *EventProcessor
	metrics drepo.Metrics
	pipe    *mid.EventPipeline
	market  models.Market
}

// NewEventCollector creates a new EventCollector instance.
func NewEventCollector(source drepo.EventSource, proc *EventProcessor, metrics drepo.Metrics, pipe *mid.EventPipeline, market models.Market) *EventCollector {
	return &EventCollector{source: source, proc: proc, metrics: metrics, pipe: pipe, market: market}
}

// IsConnected returns true if the event source is connected.
func (c *EventCollector) IsConnected() bool {
	return c.source.IsConnected()
}

func (c *EventCollector) Start(ctx context.Context) error {
	if err := c.source.Connect(ctx); err != nil {
		return err
	}
	if err := c.source.Subscribe(ctx, c.market); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	evCh, errCh := c.source.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *EventCollector) consume(ctx context.Context, evCh <-chan *models.AnomalyEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("source")
				_ = c.source.Reconnect(ctx)
			}
		case ev := <-evCh:
			if ev == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, ev)
			} else {
				c.proc.Accept(ev)
				_ = c.proc.Mirror(ctx, ev)
			}
		}
	}
}

// Processor returns the underlying EventProcessor for lifecycle management.
func (c *EventCollector) Processor() *EventProcessor { return c.proc }

// Shutdown stops the pipeline and closes the source.
func (c *EventCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.source.Close()
}
