package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestRangeWindow(t *testing.T) {
    now := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    from, to := RangeWindow("1W", now)
    if !to.Equal(now) {
        t.Fatalf("expected to == now, got %v", to)
    }
    if want := now.Add(-7 * 24 * time.Hour); !from.Equal(want) {
        t.Fatalf("expected from %v, got %v", want, from)
    }

    from, _ = RangeWindow("bogus", now)
    if want := now.Add(-24 * time.Hour); !from.Equal(want) {
        t.Fatalf("unknown range should fall back to 1D, got %v", from)
    }
}