package usecase

import (
	"fmt"
	"sync"
	"time"

	"PulseWatch/internal/domain/models"

	"github.com/google/uuid"
)

// DefaultNotificationTTL is how long a notification lives before it removes
// itself, regardless of external interaction.
const DefaultNotificationTTL = 5000 * time.Millisecond

// NotificationManager is the process-wide auto-expiring message queue. Each
// notification moves from created to removed exactly once: either the TTL
// timer fires, or an explicit Remove wins the race. Both paths are terminal
// and idempotent.
//
// It also implements the high-severity feed watcher: one warning notification
// per new top-of-feed event, guarded by the last-seen event id so repeated
// inspections of an unchanged feed never re-fire.
type NotificationManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	items    []*models.Notification
	timers   map[string]*time.Timer
	lastSeen map[models.Market]string
	closed   bool
}

// NewNotificationManager creates a manager with the given TTL.
// A non-positive TTL falls back to DefaultNotificationTTL.
func NewNotificationManager(ttl time.Duration) *NotificationManager {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &NotificationManager{
		ttl:      ttl,
		timers:   make(map[string]*time.Timer),
		lastSeen: make(map[models.Market]string),
	}
}

// Add enqueues a notification and schedules its expiry. Returns the id.
func (m *NotificationManager) Add(message string, kind models.NotificationKind) string {
	if !kind.Valid() {
		kind = models.KindInfo
	}
	n := &models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return n.ID
	}
	m.items = append(m.items, n)
	id := n.ID
	m.timers[id] = time.AfterFunc(m.ttl, func() { m.Remove(id) })
	return id
}

// Remove dismisses a notification. Removing an already-removed id is a no-op,
// which makes a late TTL firing after an explicit dismissal harmless.
func (m *NotificationManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timers[id]
	if !ok {
		return
	}
	t.Stop()
	delete(m.timers, id)
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
}

// List returns the live notifications in creation order.
func (m *NotificationManager) List() []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Notification, len(m.items))
	copy(out, m.items)
	return out
}

// OnAppend implements AppendWatcher. It enqueues a warning when the newest
// event is high severity, at most once per event id.
func (m *NotificationManager) OnAppend(ev *models.AnomalyEvent) {
	if ev == nil || ev.Severity != models.SeverityHigh {
		return
	}
	m.mu.Lock()
	if m.lastSeen[ev.Market] == ev.ID {
		m.mu.Unlock()
		return
	}
	m.lastSeen[ev.Market] = ev.ID
	m.mu.Unlock()

	m.Add(fmt.Sprintf("%s: %s", ev.DisplayName, ev.Description), models.KindWarning)
}

// Close cancels all pending expiry timers. Meant for teardown; a timer that
// already fired is harmless because Remove is idempotent.
func (m *NotificationManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	m.items = nil
}
