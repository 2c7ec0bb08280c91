package usecase

import (
    "testing"
    "time"

    "PulseWatch/internal/domain/models"
)

func TestNotificationExpiresAfterTTL(t *testing.T) {
    m := NewNotificationManager(30 * time.Millisecond)
    defer m.Close()

    m.Add("hello", models.KindInfo)
    if len(m.List()) != 1 {
        t.Fatalf("expected 1 notification")
    }

    deadline := time.Now().Add(time.Second)
    for time.Now().Before(deadline) {
        if len(m.List()) == 0 {
            return
        }
        time.Sleep(5 * time.Millisecond)
    }
    t.Fatalf("notification did not expire")
}

func TestNotificationRemoveIdempotent(t *testing.T) {
    m := NewNotificationManager(time.Minute)
    defer m.Close()

    id := m.Add("hello", models.KindSuccess)
    m.Remove(id)
    if len(m.List()) != 0 {
        t.Fatalf("expected empty list after remove")
    }

    // Second removal and unknown ids are no-ops.
    m.Remove(id)
    m.Remove("nonexistent")
    if len(m.List()) != 0 {
        t.Fatalf("expected list to stay empty")
    }
}

func TestNotificationRemoveDoesNotAffectOthers(t *testing.T) {
    m := NewNotificationManager(time.Minute)
    defer m.Close()

    a := m.Add("a", models.KindInfo)
    m.Add("b", models.KindInfo)
    m.Remove(a)

    got := m.List()
    if len(got) != 1 || got[0].Message != "b" {
        t.Fatalf("expected only b to remain, got %v", got)
    }
}

func TestHighSeverityWatcherFiresOncePerEvent(t *testing.T) {
    m := NewNotificationManager(time.Minute)
    defer m.Close()

    ev := testEvent("evt-000001", models.MarketCrypto, models.AnomalyPlunge, models.SeverityHigh)
    m.OnAppend(ev)
    m.OnAppend(ev) // same top-of-feed event observed again

    got := m.List()
    if len(got) != 1 {
        t.Fatalf("expected exactly 1 warning, got %d", len(got))
    }
    if got[0].Kind != models.KindWarning {
        t.Fatalf("expected warning kind, got %s", got[0].Kind)
    }
    if got[0].Message != "Bitcoin: Price rose 7.2% in 5 minutes" {
        t.Fatalf("unexpected message %q", got[0].Message)
    }

    // A new high-severity event fires again.
    m.OnAppend(testEvent("evt-000002", models.MarketCrypto, models.AnomalySurge, models.SeverityHigh))
    if len(m.List()) != 2 {
        t.Fatalf("expected 2 warnings after new event")
    }
}

func TestWatcherIgnoresLowSeverity(t *testing.T) {
    m := NewNotificationManager(time.Minute)
    defer m.Close()

    m.OnAppend(testEvent("evt-000001", models.MarketCrypto, models.AnomalySurge, models.SeverityLow))
    m.OnAppend(testEvent("evt-000002", models.MarketCrypto, models.AnomalySurge, models.SeverityMedium))
    if len(m.List()) != 0 {
        t.Fatalf("only high severity should notify")
    }
}
