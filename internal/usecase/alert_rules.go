package usecase

import (
	"sync"

	"PulseWatch/internal/domain/models"

	"github.com/google/uuid"
)

// AlertRuleEngine is the process-wide list of user-configured threshold
// rules. Rules and live events share the anomaly type as their join key;
// whether a consumer respects the enabled flag is up to that consumer, so
// disabled rules are retained and listed.
type AlertRuleEngine struct {
	mu    sync.RWMutex
	rules []*models.AlertRule
}

// NewAlertRuleEngine creates an engine with no rules.
func NewAlertRuleEngine() *AlertRuleEngine {
	return &AlertRuleEngine{}
}

// List returns all rules in insertion order, enabled or not.
func (e *AlertRuleEngine) List() []*models.AlertRule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*models.AlertRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Add creates an enabled rule from (type, threshold), assigns its id, and
// freezes the condition string at creation time.
func (e *AlertRuleEngine) Add(typ models.AnomalyType, threshold float64) *models.AlertRule {
	rule := &models.AlertRule{
		ID:        uuid.New().String(),
		Type:      typ,
		Condition: models.RuleCondition(typ, threshold),
		Threshold: threshold,
		Enabled:   true,
	}
	e.mu.Lock()
	e.rules = append(e.rules, rule)
	e.mu.Unlock()
	return rule
}

// Toggle flips the enabled flag. Returns false for an unknown id.
func (e *AlertRuleEngine) Toggle(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rules {
		if r.ID == id {
			r.Enabled = !r.Enabled
			return true
		}
	}
	return false
}

// Remove deletes the rule with the given id. Returns false for an unknown id.
func (e *AlertRuleEngine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.rules {
		if r.ID == id {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Matching returns enabled rules whose type matches the event's type. The
// match is advisory: it decorates feed entries for display and does not gate
// the high-severity watcher.
func (e *AlertRuleEngine) Matching(ev *models.AnomalyEvent) []*models.AlertRule {
	if ev == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*models.AlertRule
	for _, r := range e.rules {
		if r.Enabled && r.Type == ev.Type {
			out = append(out, r)
		}
	}
	return out
}
