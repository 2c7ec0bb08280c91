// Package simulator provides a timer-driven EventSource that stands in for a
// real upstream detector. It preserves the same output contract as the push
// client: a stream of anomaly events for one market.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"
)

const (
	// DefaultInterval is the tick period between emission attempts.
	DefaultInterval = 5 * time.Second
	// DefaultProbability is the chance an event is emitted on a tick. The
	// skipped ticks produce bursty, irregular arrival rather than a constant
	// rate, modeling real detection cadence.
	DefaultProbability = 0.4
	// DefaultBurst is how many events are emitted synchronously on
	// subscription, so consumers never observe an empty feed after mount.
	DefaultBurst = 6
)

var eventSeq atomic.Uint64

func nextEventID() string {
	return fmt.Sprintf("evt-%06d", eventSeq.Add(1))
}

// Source implements a simulated anomaly EventSource.
type Source struct {
	interval    time.Duration
	probability float64
	burst       int
	rng         *rand.Rand

	mu        sync.Mutex
	market    models.Market
	connected bool
	cancel    context.CancelFunc
}

// New creates a simulated EventSource.
func New(interval time.Duration, probability float64, burst int) drepo.EventSource {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if probability <= 0 || probability > 1 {
		probability = DefaultProbability
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Source{
		interval:    interval,
		probability: probability,
		burst:       burst,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Connect marks the source ready. There is no real connection to establish.
func (s *Source) Connect(ctx context.Context) error {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return nil
}

// Subscribe selects the market events are attributed to.
func (s *Source) Subscribe(ctx context.Context, market models.Market) error {
	if !market.Valid() {
		return fmt.Errorf("unknown market %q", market)
	}
	s.mu.Lock()
	s.market = market
	s.mu.Unlock()
	return nil
}

// Read emits the initial burst synchronously into the returned channel, then
// produces events on the tick schedule until ctx is cancelled or the source
// is closed.
func (s *Source) Read(ctx context.Context) (<-chan *models.AnomalyEvent, <-chan error) {
	s.mu.Lock()
	market := s.market
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	events := make(chan *models.AnomalyEvent, s.burst+16)
	errs := make(chan error, 1)

	for i := 0; i < s.burst; i++ {
		events <- s.generate(market)
	}

	go func() {
		defer close(events)
		defer close(errs)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				skip := s.rng.Float64() >= s.probability
				s.mu.Unlock()
				if skip {
					continue
				}
				select {
				case events <- s.generate(market):
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return events, errs
}

// Reconnect is a no-op for the simulator.
func (s *Source) Reconnect(ctx context.Context) error { return nil }

// Close stops emission.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsConnected indicates status.
func (s *Source) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Source) generate(market models.Market) *models.AnomalyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	instruments := models.Instruments(market)
	inst := instruments[s.rng.Intn(len(instruments))]
	types := models.AnomalyTypes()
	typ := types[s.rng.Intn(len(types))]
	sevs := models.Severities()
	sev := sevs[s.rng.Intn(len(sevs))]

	value, desc := s.magnitude(typ, inst.DisplayName)
	return &models.AnomalyEvent{
		ID:           nextEventID(),
		Type:         typ,
		InstrumentID: inst.ID,
		DisplayName:  inst.DisplayName,
		Value:        value,
		Description:  desc,
		OccurredAt:   time.Now(),
		Severity:     sev,
		Market:       market,
	}
}

func (s *Source) magnitude(typ models.AnomalyType, name string) (string, string) {
	switch typ {
	case models.AnomalySurge:
		pct := 3 + s.rng.Float64()*10
		return fmt.Sprintf("+%.1f%%", pct),
			fmt.Sprintf("%s rose %.1f%% within 5 minutes", name, pct)
	case models.AnomalyPlunge:
		pct := 3 + s.rng.Float64()*10
		return fmt.Sprintf("-%.1f%%", pct),
			fmt.Sprintf("%s fell %.1f%% within 5 minutes", name, pct)
	case models.AnomalyVolume:
		pct := 150 + s.rng.Float64()*400
		return fmt.Sprintf("%.0f%%", pct),
			fmt.Sprintf("%s volume at %.0f%% of the rolling average", name, pct)
	case models.AnomalyVolatility:
		pct := 2 + s.rng.Float64()*8
		return fmt.Sprintf("%.1f%%", pct),
			fmt.Sprintf("%s bid-ask spread widened to %.1f%%", name, pct)
	}
	return "", ""
}
