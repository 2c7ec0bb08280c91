package usecase

import (
	"context"
	"fmt"
	"sync"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"
)

// DefaultPageSize is the page size requested from the feed endpoint.
const DefaultPageSize = 20

// FeedLoader merges server-paginated feed pages into a single deduplicated,
// first-seen-ordered list. At most one fetch is in flight per instance; a
// fetch that resolves after a Reset superseded it is discarded.
type FeedLoader struct {
	fetcher  drepo.PageFetcher
	pageSize int

	mu      sync.Mutex
	items   []models.FeedItem
	seen    map[string]struct{}
	cursor  *string
	loading bool
	filters models.FeedFilters
	gen     uint64
	visible bool
}

// NewFeedLoader creates a loader around the given fetcher.
// A non-positive pageSize falls back to DefaultPageSize.
func NewFeedLoader(fetcher drepo.PageFetcher, pageSize int) *FeedLoader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedLoader{
		fetcher:  fetcher,
		pageSize: pageSize,
		seen:     make(map[string]struct{}),
	}
}

// Snapshot returns the current loader state for the presentation layer.
func (l *FeedLoader) Snapshot() models.FeedSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]models.FeedItem, len(l.items))
	copy(items, l.items)
	return models.FeedSnapshot{Items: items, Cursor: l.cursor, IsLoadingMore: l.loading}
}

// Reset discards all accumulated items and the cursor, then loads the first
// page for the new filter set. This is a distinct transition, never a merge:
// any fetch still pending for the previous filters is invalidated.
func (l *FeedLoader) Reset(ctx context.Context, filters models.FeedFilters) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.filters = filters
	l.items = nil
	l.seen = make(map[string]struct{})
	l.cursor = nil
	l.loading = true
	l.mu.Unlock()

	page, err := l.fetcher.FetchPage(ctx, filters, nil, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// Superseded by a newer reset while the fetch was in flight.
		return nil
	}
	l.loading = false
	if err != nil {
		return fmt.Errorf("load first page: %w", err)
	}
	l.mergeLocked(page)
	return nil
}

// LoadMore fetches and merges the next page. It is a no-op when pagination is
// exhausted (cursor nil) or another load is already in flight; the
// check-and-set happens atomically under the loader's lock.
func (l *FeedLoader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || l.cursor == nil {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	gen := l.gen
	cursor := l.cursor
	filters := l.filters
	l.mu.Unlock()

	page, err := l.fetcher.FetchPage(ctx, filters, cursor, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// A reset happened while this fetch was pending; the reset already
		// owns the loading flag, so leave state alone.
		return nil
	}
	l.loading = false
	if err != nil {
		// items and cursor stay unchanged; the failure is surfaced and the
		// next LoadMore retries from the same cursor.
		return fmt.Errorf("load more: %w", err)
	}
	l.mergeLocked(page)
	return nil
}

// AutoTrigger feeds the proximity signal (e.g. a scroll sentinel). A load is
// started only on the transition to visible, under the same in-flight guard.
func (l *FeedLoader) AutoTrigger(ctx context.Context, visible bool) error {
	l.mu.Lock()
	fire := visible && !l.visible && l.cursor != nil
	l.visible = visible
	l.mu.Unlock()
	if !fire {
		return nil
	}
	return l.LoadMore(ctx)
}

// mergeLocked appends the page's items, dropping ids already present so the
// first occurrence keeps its position, and replaces the cursor
// unconditionally. A nil next cursor terminates pagination.
func (l *FeedLoader) mergeLocked(page *models.FeedPage) {
	if page == nil {
		l.cursor = nil
		return
	}
	for _, it := range page.Items {
		if _, dup := l.seen[it.ID]; dup {
			continue
		}
		l.seen[it.ID] = struct{}{}
		l.items = append(l.items, it)
	}
	l.cursor = page.NextCursor
}
