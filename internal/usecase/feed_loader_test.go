package usecase

import (
    "context"
    "sync"
    "testing"
    "time"

    "PulseWatch/internal/domain/models"
)

// fakeFetcher serves scripted pages keyed by cursor. A nil cursor selects the
// first page.
type fakeFetcher struct {
    mu      sync.Mutex
    pages   map[string]*models.FeedPage
    calls   int
    block   chan struct{} // when non-nil, FetchPage waits on it
    started chan struct{} // signalled when a blocked fetch has begun
}

func (f *fakeFetcher) FetchPage(ctx context.Context, filters models.FeedFilters, cursor *string, size int) (*models.FeedPage, error) {
    f.mu.Lock()
    f.calls++
    block := f.block
    started := f.started
    f.mu.Unlock()

    if started != nil {
        started <- struct{}{}
    }
    if block != nil {
        <-block
    }

    key := ""
    if cursor != nil {
        key = *cursor
    }
    f.mu.Lock()
    defer f.mu.Unlock()
    if page, ok := f.pages[key]; ok {
        return page, nil
    }
    return &models.FeedPage{}, nil
}

func strptr(s string) *string { return &s }

func items(ids ...string) []models.FeedItem {
    out := make([]models.FeedItem, 0, len(ids))
    for _, id := range ids {
        out = append(out, models.FeedItem{ID: id, PublishedAt: time.Now()})
    }
    return out
}

func TestLoaderMergeDeduplicates(t *testing.T) {
    f := &fakeFetcher{pages: map[string]*models.FeedPage{
        "":   {Items: items("1", "2", "3"), NextCursor: strptr("p2")},
        "p2": {Items: items("3", "4", "2", "5"), NextCursor: nil},
    }}
    l := NewFeedLoader(f, 3)

    ctx := context.Background()
    if err := l.Reset(ctx, models.FeedFilters{}); err != nil {
        t.Fatalf("reset: %v", err)
    }
    if err := l.LoadMore(ctx); err != nil {
        t.Fatalf("load more: %v", err)
    }

    snap := l.Snapshot()
    want := []string{"1", "2", "3", "4", "5"}
    if len(snap.Items) != len(want) {
        t.Fatalf("expected %d items, got %d", len(want), len(snap.Items))
    }
    for i, id := range want {
        if snap.Items[i].ID != id {
            t.Fatalf("position %d: expected %s, got %s", i, id, snap.Items[i].ID)
        }
    }
    if snap.Cursor != nil {
        t.Fatalf("nil next cursor should terminate pagination")
    }
}

func TestLoaderLoadMoreAfterExhaustionIsNoop(t *testing.T) {
    f := &fakeFetcher{pages: map[string]*models.FeedPage{
        "": {Items: items("1"), NextCursor: nil},
    }}
    l := NewFeedLoader(f, 3)

    ctx := context.Background()
    if err := l.Reset(ctx, models.FeedFilters{}); err != nil {
        t.Fatalf("reset: %v", err)
    }
    before := f.calls
    if err := l.LoadMore(ctx); err != nil {
        t.Fatalf("load more: %v", err)
    }
    if f.calls != before {
        t.Fatalf("exhausted loader must not fetch")
    }
}

func TestLoaderSingleInFlight(t *testing.T) {
    f := &fakeFetcher{
        pages: map[string]*models.FeedPage{
            "":   {Items: items("1"), NextCursor: strptr("p2")},
            "p2": {Items: items("2"), NextCursor: nil},
        },
    }
    l := NewFeedLoader(f, 3)
    ctx := context.Background()
    if err := l.Reset(ctx, models.FeedFilters{}); err != nil {
        t.Fatalf("reset: %v", err)
    }

    // Block the next fetch, then issue two concurrent LoadMore calls.
    block := make(chan struct{})
    f.mu.Lock()
    f.block = block
    f.started = make(chan struct{}, 1)
    callsBefore := f.calls
    f.mu.Unlock()

    done := make(chan struct{})
    go func() {
        _ = l.LoadMore(ctx)
        close(done)
    }()
    <-f.started // first fetch is in flight

    if err := l.LoadMore(ctx); err != nil {
        t.Fatalf("second load more: %v", err)
    }

    f.mu.Lock()
    got := f.calls - callsBefore
    f.block, f.started = nil, nil
    f.mu.Unlock()
    close(block)

    <-done
    if got != 1 {
        t.Fatalf("expected a single in-flight fetch, got %d", got)
    }
}

func TestLoaderResetDiscardsStaleFetch(t *testing.T) {
    f := &fakeFetcher{
        pages: map[string]*models.FeedPage{
            "":   {Items: items("1"), NextCursor: strptr("p2")},
            "p2": {Items: items("stale"), NextCursor: strptr("p3")},
        },
    }
    l := NewFeedLoader(f, 3)
    ctx := context.Background()
    if err := l.Reset(ctx, models.FeedFilters{}); err != nil {
        t.Fatalf("reset: %v", err)
    }

    f.mu.Lock()
    f.block = make(chan struct{})
    f.started = make(chan struct{}, 1)
    f.mu.Unlock()

    done := make(chan struct{})
    go func() {
        _ = l.LoadMore(ctx)
        close(done)
    }()
    <-f.started // stale fetch is pending

    // Reset supersedes the pending fetch. Unblock it only for the reset's own
    // first-page request after releasing the old one.
    f.mu.Lock()
    block := f.block
    f.block = nil
    f.started = nil
    f.mu.Unlock()

    resetDone := make(chan error, 1)
    go func() { resetDone <- l.Reset(ctx, models.FeedFilters{Sentiment: "positive"}) }()

    close(block)
    <-done
    if err := <-resetDone; err != nil {
        t.Fatalf("reset: %v", err)
    }

    snap := l.Snapshot()
    for _, it := range snap.Items {
        if it.ID == "stale" {
            t.Fatalf("stale page leaked into reset state")
        }
    }
    if snap.IsLoadingMore {
        t.Fatalf("loading flag must settle after reset")
    }
}

func TestLoaderAutoTriggerOnTransition(t *testing.T) {
    f := &fakeFetcher{pages: map[string]*models.FeedPage{
        "":   {Items: items("1"), NextCursor: strptr("p2")},
        "p2": {Items: items("2"), NextCursor: strptr("p3")},
        "p3": {Items: items("3"), NextCursor: nil},
    }}
    l := NewFeedLoader(f, 3)
    ctx := context.Background()
    if err := l.Reset(ctx, models.FeedFilters{}); err != nil {
        t.Fatalf("reset: %v", err)
    }

    if err := l.AutoTrigger(ctx, true); err != nil {
        t.Fatalf("auto trigger: %v", err)
    }
    if n := len(l.Snapshot().Items); n != 2 {
        t.Fatalf("expected visibility transition to load a page, got %d items", n)
    }

    // Still visible: no re-fire.
    before := f.calls
    if err := l.AutoTrigger(ctx, true); err != nil {
        t.Fatalf("auto trigger: %v", err)
    }
    if f.calls != before {
        t.Fatalf("repeated visible signal must not fetch")
    }

    // Hide then show again fires once more.
    if err := l.AutoTrigger(ctx, false); err != nil {
        t.Fatalf("auto trigger: %v", err)
    }
    if err := l.AutoTrigger(ctx, true); err != nil {
        t.Fatalf("auto trigger: %v", err)
    }
    if n := len(l.Snapshot().Items); n != 3 {
        t.Fatalf("expected 3 items after second transition, got %d", n)
    }
}
