package usecase

import (
	"sync"

	"PulseWatch/internal/domain/models"
)

// FeedCap is the retention cap per market: the feed keeps only the most
// recent entries and drops the oldest on overflow, without wraparound indices.
const FeedCap = 50

// AppendWatcher is invoked synchronously after each successful append, in the
// same step as the append itself, so exactly one check happens per new event.
type AppendWatcher interface {
	OnAppend(ev *models.AnomalyEvent)
}

// AnomalyFeed is a bounded, newest-first collection of anomaly events keyed
// per market. Markets never interfere with each other.
type AnomalyFeed struct {
	mu      sync.RWMutex
	byMkt   map[models.Market][]*models.AnomalyEvent
	cap     int
	watcher AppendWatcher
}

// NewAnomalyFeed creates an empty feed with the given retention cap.
// A cap of 0 falls back to FeedCap.
func NewAnomalyFeed(cap int) *AnomalyFeed {
	if cap <= 0 {
		cap = FeedCap
	}
	return &AnomalyFeed{
		byMkt: make(map[models.Market][]*models.AnomalyEvent),
		cap:   cap,
	}
}

// SetWatcher attaches the watcher notified on every append.
func (f *AnomalyFeed) SetWatcher(w AppendWatcher) {
	f.mu.Lock()
	f.watcher = w
	f.mu.Unlock()
}

// Append prepends ev to its market's list and truncates to the cap.
func (f *AnomalyFeed) Append(ev *models.AnomalyEvent) {
	if ev == nil {
		return
	}
	f.mu.Lock()
	list := f.byMkt[ev.Market]
	list = append([]*models.AnomalyEvent{ev}, list...)
	if len(list) > f.cap {
		list = list[:f.cap]
	}
	f.byMkt[ev.Market] = list
	w := f.watcher
	f.mu.Unlock()

	// Watcher runs outside the feed lock but still in the append step, so a
	// reader inspecting the feed repeatedly cannot trigger extra checks.
	if w != nil {
		w.OnAppend(ev)
	}
}

// List returns the market's events, newest first.
func (f *AnomalyFeed) List(market models.Market) []*models.AnomalyEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	list := f.byMkt[market]
	out := make([]*models.AnomalyEvent, len(list))
	copy(out, list)
	return out
}

// Filter returns the market's events restricted to one type, newest first.
// The literal "all" (or an empty type) is a pass-through.
func (f *AnomalyFeed) Filter(market models.Market, typ string) []*models.AnomalyEvent {
	if typ == "" || typ == "all" {
		return f.List(market)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []*models.AnomalyEvent
	for _, ev := range f.byMkt[market] {
		if string(ev.Type) == typ {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the market's current feed depth.
func (f *AnomalyFeed) Len(market models.Market) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byMkt[market])
}
