package models

import "time"

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// Notification is a toast message. It is never persisted.
// A zero Duration keeps the toast until it is dismissed.
type Notification struct {
	ID       string
	Message  string
	Type     NotificationType
	Duration time.Duration
}
