package models

import "fmt"

// AlertRule is a user-defined threshold rule joined to anomaly events by type.
type AlertRule struct {
	ID        string      `json:"id"`
	Type      AnomalyType `json:"type"`
	Condition string      `json:"condition"`
	Threshold float64     `json:"threshold"`
	Enabled   bool        `json:"enabled"`
}

// RuleCondition renders the human-readable condition for a (type, threshold)
// pair. The string is stored on the rule at creation time and never
// recomputed, so later threshold edits do not rewrite it.
func RuleCondition(t AnomalyType, threshold float64) string {
	switch t {
	case AnomalySurge:
		return fmt.Sprintf("Price rises more than %s within 5 minutes", formatPercent(threshold))
	case AnomalyPlunge:
		return fmt.Sprintf("Price falls more than %s within 5 minutes", formatPercent(threshold))
	case AnomalyVolume:
		return fmt.Sprintf("Volume exceeds %s of the rolling average", formatPercent(threshold))
	case AnomalyVolatility:
		return fmt.Sprintf("Bid-ask spread exceeds %s", formatPercent(threshold))
	}
	return fmt.Sprintf("Threshold %s exceeded", formatPercent(threshold))
}

func formatPercent(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d%%", int64(v))
	}
	return fmt.Sprintf("%.1f%%", v)
}
