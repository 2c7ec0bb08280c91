package simulator

import (
    "context"
    "strconv"
    "strings"
    "testing"
    "time"

    "PulseWatch/internal/domain/models"
)

func TestReadEmitsInitialBurst(t *testing.T) {
    src := New(time.Hour, 0.4, 6)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    if err := src.Connect(ctx); err != nil {
        t.Fatalf("connect: %v", err)
    }
    if err := src.Subscribe(ctx, models.MarketCrypto); err != nil {
        t.Fatalf("subscribe: %v", err)
    }

    events, _ := src.Read(ctx)

    // The burst is emitted synchronously before Read returns.
    for i := 0; i < 6; i++ {
        select {
        case ev := <-events:
            if ev.Market != models.MarketCrypto {
                t.Fatalf("event %d has market %s", i, ev.Market)
            }
            if !ev.Type.Valid() || !ev.Severity.Valid() {
                t.Fatalf("event %d has invalid enums: %+v", i, ev)
            }
            if ev.OccurredAt.IsZero() {
                t.Fatalf("event %d missing timestamp", i)
            }
        default:
            t.Fatalf("burst event %d not available synchronously", i)
        }
    }
}

func TestEventIDsMonotonic(t *testing.T) {
    src := New(time.Hour, 0.4, 4)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    _ = src.Connect(ctx)
    _ = src.Subscribe(ctx, models.MarketStock)

    events, _ := src.Read(ctx)
    last := -1
    for i := 0; i < 4; i++ {
        ev := <-events
        if !strings.HasPrefix(ev.ID, "evt-") {
            t.Fatalf("unexpected id %q", ev.ID)
        }
        n, err := strconv.Atoi(strings.TrimPrefix(ev.ID, "evt-"))
        if err != nil {
            t.Fatalf("id %q not numeric: %v", ev.ID, err)
        }
        if n <= last {
            t.Fatalf("ids not increasing: %d after %d", n, last)
        }
        last = n
    }
}

func TestSubscribeRejectsUnknownMarket(t *testing.T) {
    src := New(time.Hour, 0.4, 1)
    if err := src.Subscribe(context.Background(), models.Market("forex")); err == nil {
        t.Fatalf("expected error for unknown market")
    }
}

func TestMagnitudeRanges(t *testing.T) {
    s := New(time.Hour, 0.4, 1).(*Source)

    for i := 0; i < 200; i++ {
        value, desc := s.magnitude(models.AnomalySurge, "Bitcoin")
        pct := parsePercent(t, strings.TrimPrefix(value, "+"))
        if pct < 3 || pct >= 13 {
            t.Fatalf("surge %.1f%% outside [3, 13)", pct)
        }
        if !strings.Contains(desc, "rose") {
            t.Fatalf("unexpected surge description %q", desc)
        }

        value, _ = s.magnitude(models.AnomalyPlunge, "Bitcoin")
        pct = parsePercent(t, strings.TrimPrefix(value, "-"))
        if pct < 3 || pct >= 13 {
            t.Fatalf("plunge %.1f%% outside [3, 13)", pct)
        }

        value, _ = s.magnitude(models.AnomalyVolume, "Bitcoin")
        pct = parsePercent(t, value)
        if pct < 150 || pct > 550 {
            t.Fatalf("volume %.0f%% outside [150, 550]", pct)
        }
    }
}

func parsePercent(t *testing.T, s string) float64 {
    t.Helper()
    v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
    if err != nil {
        t.Fatalf("parse %q: %v", s, err)
    }
    return v
}

func TestCloseStopsEmission(t *testing.T) {
    src := New(10*time.Millisecond, 1, 1)
    ctx := context.Background()
    _ = src.Connect(ctx)
    _ = src.Subscribe(ctx, models.MarketCrypto)

    events, _ := src.Read(ctx)
    <-events // burst

    if !src.IsConnected() {
        t.Fatalf("expected connected after Connect")
    }
    if err := src.Close(); err != nil {
        t.Fatalf("close: %v", err)
    }
    if src.IsConnected() {
        t.Fatalf("expected disconnected after Close")
    }

    // Channel drains and closes shortly after cancel.
    deadline := time.After(time.Second)
    for {
        select {
        case _, ok := <-events:
            if !ok {
                return
            }
        case <-deadline:
            t.Fatalf("event channel did not close")
        }
    }
}
