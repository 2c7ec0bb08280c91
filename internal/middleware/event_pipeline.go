package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PulseWatch/internal/domain/models"
	domrepo "PulseWatch/internal/domain/repository"
	"PulseWatch/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs. Accept must be
// called exactly once per event; Mirror may be retried.
type Proc interface {
	Accept(ev *models.AnomalyEvent)
	Mirror(ctx context.Context, ev *models.AnomalyEvent) error
}

// EventPipeline sits between an EventSource and the processor. It validates,
// throttles per instrument, and buffers sink mirroring when the backend is
// unavailable.
type EventPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  int
	bufSize int
	bufCh   chan *models.AnomalyEvent
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*EventPipeline)

// WithMaxRPS sets the max accepted events per second per instrument.
func WithMaxRPS(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the mirror retry buffer size.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewEventPipeline creates a new pipeline.
func NewEventPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		proc:    proc,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  10,
		bufSize: 500,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.AnomalyEvent, p.bufSize)
	return p
}

// Start launches background re-mirroring of buffered events.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case ev := <-p.bufCh:
				if ev == nil {
					continue
				}
				if err := p.proc.Mirror(ctx, ev); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- ev:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background re-mirroring.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles an event, accepts it into the feed, and
// mirrors it to the sink, buffering the mirror on failure.
func (p *EventPipeline) Process(ctx context.Context, ev *models.AnomalyEvent) error {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(ev.InstrumentID, float64(p.maxRPS), float64(p.maxRPS)) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	p.proc.Accept(ev)

	if err := p.proc.Mirror(ctx, ev); err != nil {
		p.metrics.RecordError("pipeline_mirror")
		select {
		case p.bufCh <- ev:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	return nil
}

func validateEvent(ev *models.AnomalyEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.ID == "" {
		return fmt.Errorf("event id empty")
	}
	if ev.InstrumentID == "" {
		return fmt.Errorf("instrument empty")
	}
	if !ev.Type.Valid() {
		return fmt.Errorf("unknown type %q", ev.Type)
	}
	if !ev.Severity.Valid() {
		return fmt.Errorf("unknown severity %q", ev.Severity)
	}
	if !ev.Market.Valid() {
		return fmt.Errorf("unknown market %q", ev.Market)
	}
	if ev.OccurredAt.IsZero() {
		return fmt.Errorf("timestamp invalid")
	}
	return nil
}
