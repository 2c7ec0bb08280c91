package middleware

import (
    "context"
    "fmt"
    "sync"
    "testing"
    "time"

    "PulseWatch/internal/domain/models"
)

type fakeProc struct {
    mu       sync.Mutex
    accepted []string
    mirrored []string
    failing  bool
}

func (p *fakeProc) Accept(ev *models.AnomalyEvent) {
    p.mu.Lock()
    p.accepted = append(p.accepted, ev.ID)
    p.mu.Unlock()
}

func (p *fakeProc) Mirror(ctx context.Context, ev *models.AnomalyEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.failing {
        return fmt.Errorf("sink unavailable")
    }
    p.mirrored = append(p.mirrored, ev.ID)
    return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordEvent(market, typ, severity string) {}
func (nopMetrics) RecordError(kind string)                  {}
func (nopMetrics) RecordFeedDepth(market string, depth int) {}
func (nopMetrics) RecordLatency(op string, seconds float64) {}

func pipelineEvent(id string) *models.AnomalyEvent {
    return &models.AnomalyEvent{
        ID:           id,
        Type:         models.AnomalySurge,
        InstrumentID: "BTC",
        DisplayName:  "Bitcoin",
        OccurredAt:   time.Now(),
        Severity:     models.SeverityLow,
        Market:       models.MarketCrypto,
    }
}

func TestPipelineRejectsInvalidEvents(t *testing.T) {
    proc := &fakeProc{}
    p := NewEventPipeline(proc, nopMetrics{})

    cases := []*models.AnomalyEvent{
        nil,
        {ID: "", InstrumentID: "BTC"},
        {ID: "x", InstrumentID: ""},
        func() *models.AnomalyEvent { ev := pipelineEvent("x"); ev.Type = "bogus"; return ev }(),
        func() *models.AnomalyEvent { ev := pipelineEvent("x"); ev.Severity = "bogus"; return ev }(),
        func() *models.AnomalyEvent { ev := pipelineEvent("x"); ev.Market = "forex"; return ev }(),
        func() *models.AnomalyEvent { ev := pipelineEvent("x"); ev.OccurredAt = time.Time{}; return ev }(),
    }
    for i, ev := range cases {
        if err := p.Process(context.Background(), ev); err == nil {
            t.Fatalf("case %d: expected validation error", i)
        }
    }
    if len(proc.accepted) != 0 {
        t.Fatalf("invalid events must never reach the processor")
    }
}

func TestPipelineAcceptsOncePerEvent(t *testing.T) {
    proc := &fakeProc{}
    p := NewEventPipeline(proc, nopMetrics{}, WithMaxRPS(100))

    if err := p.Process(context.Background(), pipelineEvent("evt-000001")); err != nil {
        t.Fatalf("process: %v", err)
    }
    if len(proc.accepted) != 1 || len(proc.mirrored) != 1 {
        t.Fatalf("expected one accept and one mirror, got %d/%d", len(proc.accepted), len(proc.mirrored))
    }
}

func TestPipelineBuffersFailedMirror(t *testing.T) {
    proc := &fakeProc{failing: true}
    p := NewEventPipeline(proc, nopMetrics{}, WithMaxRPS(100), WithBufferSize(10))

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    if err := p.Process(ctx, pipelineEvent("evt-000001")); err == nil {
        t.Fatalf("expected downstream error while sink is failing")
    }
    proc.mu.Lock()
    accepted := len(proc.accepted)
    proc.mu.Unlock()
    if accepted != 1 {
        t.Fatalf("failed mirror must not suppress the accept")
    }

    // Sink recovers; the buffered event gets re-mirrored, not re-accepted.
    proc.mu.Lock()
    proc.failing = false
    proc.mu.Unlock()

    p.Start(ctx)
    defer p.Stop()

    deadline := time.Now().Add(2 * time.Second)
    for time.Now().Before(deadline) {
        proc.mu.Lock()
        mirrored := len(proc.mirrored)
        accepted := len(proc.accepted)
        proc.mu.Unlock()
        if mirrored == 1 {
            if accepted != 1 {
                t.Fatalf("retry must not re-accept the event")
            }
            return
        }
        time.Sleep(10 * time.Millisecond)
    }
    t.Fatalf("buffered event never re-mirrored")
}

func TestPipelineThrottleDropsSilently(t *testing.T) {
    proc := &fakeProc{}
    p := NewEventPipeline(proc, nopMetrics{}, WithMaxRPS(1))

    ctx := context.Background()
    for i := 0; i < 5; i++ {
        if err := p.Process(ctx, pipelineEvent(fmt.Sprintf("evt-%06d", i))); err != nil {
            t.Fatalf("throttled events should not error: %v", err)
        }
    }
    if len(proc.accepted) >= 5 {
        t.Fatalf("expected throttling to drop some events, accepted %d", len(proc.accepted))
    }
    if len(proc.accepted) == 0 {
        t.Fatalf("first event should pass the limiter")
    }
}
