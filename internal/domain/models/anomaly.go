package models

import "time"

// AnomalyType classifies what kind of unusual condition was observed.
type AnomalyType string

const (
	AnomalySurge      AnomalyType = "surge"
	AnomalyPlunge     AnomalyType = "plunge"
	AnomalyVolume     AnomalyType = "volume"
	AnomalyVolatility AnomalyType = "volatility"
)

// AnomalyTypes lists all known anomaly types.
func AnomalyTypes() []AnomalyType {
	return []AnomalyType{AnomalySurge, AnomalyPlunge, AnomalyVolume, AnomalyVolatility}
}

// Valid reports whether t is a known anomaly type.
func (t AnomalyType) Valid() bool {
	switch t {
	case AnomalySurge, AnomalyPlunge, AnomalyVolume, AnomalyVolatility:
		return true
	}
	return false
}

// Severity is the coarse urgency classification of an anomaly.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists all severity levels.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// AnomalyEvent is one detected market anomaly. Immutable once created;
// ids are unique and monotonic within the process.
type AnomalyEvent struct {
	ID           string      `json:"id"`
	Type         AnomalyType `json:"type"`
	InstrumentID string      `json:"instrument_id"`
	DisplayName  string      `json:"display_name"`
	Value        string      `json:"value"` // pre-formatted magnitude, e.g. "+7.2%"
	Description  string      `json:"description"`
	OccurredAt   time.Time   `json:"occurred_at"`
	Severity     Severity    `json:"severity"`
	Market       Market      `json:"market"`
}
