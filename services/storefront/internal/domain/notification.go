package domain

import "time"

// NotificationKind distinguishes informational toasts from error toasts.
type NotificationKind string

const (
	NotificationInfo  NotificationKind = "info"
	NotificationError NotificationKind = "error"
)

// Notification is a transient message shown to the shopper.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Info builds an informational notification.
func Info(title, description string) Notification {
	return Notification{Kind: NotificationInfo, Title: title, Description: description}
}

// Error builds an error notification.
func Error(title, description string) Notification {
	return Notification{Kind: NotificationError, Title: title, Description: description}
}
