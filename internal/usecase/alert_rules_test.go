package usecase

import (
    "testing"

    "PulseWatch/internal/domain/models"
)

func TestRuleConditionFrozenAtCreation(t *testing.T) {
    e := NewAlertRuleEngine()
    r := e.Add(models.AnomalySurge, 5)

    if r.Condition != "Price rises more than 5% within 5 minutes" {
        t.Fatalf("unexpected condition %q", r.Condition)
    }
    if !r.Enabled {
        t.Fatalf("new rules start enabled")
    }

    // Mutating the threshold afterwards must not rewrite the condition.
    r.Threshold = 12
    got := e.List()[0]
    if got.Condition != "Price rises more than 5% within 5 minutes" {
        t.Fatalf("condition was recomputed: %q", got.Condition)
    }
}

func TestRuleConditionTemplates(t *testing.T) {
    cases := []struct {
        typ  models.AnomalyType
        th   float64
        want string
    }{
        {models.AnomalyPlunge, 3, "Price falls more than 3% within 5 minutes"},
        {models.AnomalyVolume, 200, "Volume exceeds 200% of the rolling average"},
        {models.AnomalyVolatility, 2.5, "Bid-ask spread exceeds 2.5%"},
    }
    for _, tc := range cases {
        if got := models.RuleCondition(tc.typ, tc.th); got != tc.want {
            t.Fatalf("%s: got %q, want %q", tc.typ, got, tc.want)
        }
    }
}

func TestRuleToggleRetainsDisabled(t *testing.T) {
    e := NewAlertRuleEngine()
    r := e.Add(models.AnomalyVolume, 150)

    if !e.Toggle(r.ID) {
        t.Fatalf("toggle should find the rule")
    }
    got := e.List()
    if len(got) != 1 {
        t.Fatalf("disabled rules must stay listed")
    }
    if got[0].Enabled {
        t.Fatalf("rule should be disabled after toggle")
    }

    if e.Toggle("nonexistent") {
        t.Fatalf("toggle of unknown id should report false")
    }
}

func TestRuleRemove(t *testing.T) {
    e := NewAlertRuleEngine()
    a := e.Add(models.AnomalySurge, 5)
    e.Add(models.AnomalyPlunge, 5)

    if !e.Remove(a.ID) {
        t.Fatalf("remove should find the rule")
    }
    if len(e.List()) != 1 {
        t.Fatalf("expected 1 rule left")
    }
    if e.Remove(a.ID) {
        t.Fatalf("second remove should report false")
    }
}

func TestRuleMatchingAdvisory(t *testing.T) {
    e := NewAlertRuleEngine()
    enabled := e.Add(models.AnomalySurge, 5)
    disabled := e.Add(models.AnomalySurge, 10)
    e.Toggle(disabled.ID)
    e.Add(models.AnomalyVolume, 200)

    ev := testEvent("evt-000001", models.MarketCrypto, models.AnomalySurge, models.SeverityLow)
    got := e.Matching(ev)
    if len(got) != 1 || got[0].ID != enabled.ID {
        t.Fatalf("expected only the enabled surge rule, got %d", len(got))
    }
}
