package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// RangeWindow returns the [from, to] window ending at now for a named range.
func RangeWindow(rng string, now time.Time) (time.Time, time.Time) {
    var d time.Duration
    switch rng {
    case "1D":
        d = 24 * time.Hour
    case "1W":
        d = 7 * 24 * time.Hour
    case "1M":
        d = 30 * 24 * time.Hour
    case "1Y":
        d = 365 * 24 * time.Hour
    default:
        d = 24 * time.Hour
    }
    return now.Add(-d), now
}

// No extra helpers here; use strconv where needed.