package models

import "time"

// NotificationKind is the visual/urgency class of a notification.
type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindSuccess NotificationKind = "success"
)

// Valid reports whether k is a known notification kind.
func (k NotificationKind) Valid() bool {
	return k == KindInfo || k == KindWarning || k == KindSuccess
}

// Notification is a short-lived toast message. It is removed either when its
// TTL elapses or by an explicit Remove, whichever happens first.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}
