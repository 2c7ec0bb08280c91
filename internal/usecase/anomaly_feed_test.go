package usecase

import (
    "fmt"
    "testing"
    "time"

    "PulseWatch/internal/domain/models"
)

func testEvent(id string, market models.Market, typ models.AnomalyType, sev models.Severity) *models.AnomalyEvent {
    return &models.AnomalyEvent{
        ID:           id,
        Type:         typ,
        InstrumentID: "BTC",
        DisplayName:  "Bitcoin",
        Value:        "+7.2%",
        Description:  "Price rose 7.2% in 5 minutes",
        OccurredAt:   time.Now(),
        Severity:     sev,
        Market:       market,
    }
}

func TestFeedNewestFirst(t *testing.T) {
    f := NewAnomalyFeed(0)
    f.Append(testEvent("a", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))
    f.Append(testEvent("b", models.MarketCrypto, models.AnomalyVolume, models.SeverityLow))
    f.Append(testEvent("c", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))

    got := f.List(models.MarketCrypto)
    if len(got) != 3 {
        t.Fatalf("expected 3 events, got %d", len(got))
    }
    if got[0].ID != "c" || got[1].ID != "b" || got[2].ID != "a" {
        t.Fatalf("expected newest first, got %s %s %s", got[0].ID, got[1].ID, got[2].ID)
    }
}

func TestFeedCapDropsOldest(t *testing.T) {
    f := NewAnomalyFeed(0)
    for i := 0; i < FeedCap+10; i++ {
        f.Append(testEvent(fmt.Sprintf("evt-%06d", i), models.MarketCrypto, models.AnomalySurge, models.SeverityLow))
    }

    got := f.List(models.MarketCrypto)
    if len(got) != FeedCap {
        t.Fatalf("expected %d events after overflow, got %d", FeedCap, len(got))
    }
    // Newest entry survives, the 10 oldest are gone.
    if got[0].ID != fmt.Sprintf("evt-%06d", FeedCap+9) {
        t.Fatalf("unexpected newest id %s", got[0].ID)
    }
    if got[len(got)-1].ID != fmt.Sprintf("evt-%06d", 10) {
        t.Fatalf("unexpected oldest id %s", got[len(got)-1].ID)
    }
}

func TestFeedMarketsIndependent(t *testing.T) {
    f := NewAnomalyFeed(0)
    f.Append(testEvent("a", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))
    f.Append(testEvent("b", models.MarketStock, models.AnomalyPlunge, models.SeverityLow))

    if n := f.Len(models.MarketCrypto); n != 1 {
        t.Fatalf("expected 1 crypto event, got %d", n)
    }
    if n := f.Len(models.MarketStock); n != 1 {
        t.Fatalf("expected 1 stock event, got %d", n)
    }
}

func TestFeedFilter(t *testing.T) {
    f := NewAnomalyFeed(0)
    f.Append(testEvent("a", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))
    f.Append(testEvent("b", models.MarketCrypto, models.AnomalyVolume, models.SeverityLow))
    f.Append(testEvent("c", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))

    surges := f.Filter(models.MarketCrypto, "surge")
    if len(surges) != 2 {
        t.Fatalf("expected 2 surge events, got %d", len(surges))
    }
    if surges[0].ID != "c" || surges[1].ID != "a" {
        t.Fatalf("filter should preserve newest-first order")
    }

    all := f.Filter(models.MarketCrypto, "all")
    if len(all) != 3 {
        t.Fatalf("'all' should pass everything through, got %d", len(all))
    }
    if len(f.Filter(models.MarketCrypto, "")) != 3 {
        t.Fatalf("empty type should pass everything through")
    }
}

type recordingWatcher struct {
    ids []string
}

func (w *recordingWatcher) OnAppend(ev *models.AnomalyEvent) {
    w.ids = append(w.ids, ev.ID)
}

func TestFeedWatcherCalledPerAppend(t *testing.T) {
    f := NewAnomalyFeed(0)
    w := &recordingWatcher{}
    f.SetWatcher(w)

    f.Append(testEvent("a", models.MarketCrypto, models.AnomalySurge, models.SeverityHigh))
    f.Append(testEvent("b", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))

    // Reads must not re-trigger the watcher.
    f.List(models.MarketCrypto)
    f.List(models.MarketCrypto)

    if len(w.ids) != 2 {
        t.Fatalf("expected watcher fired once per append, got %d", len(w.ids))
    }
    if w.ids[0] != "a" || w.ids[1] != "b" {
        t.Fatalf("watcher saw wrong ids: %v", w.ids)
    }
}
