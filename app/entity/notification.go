package entity

import "time"

const (
	NotificationTypeInfo    = "INFO"
	NotificationTypeWarning = "WARNING"
	NotificationTypeError   = "ERROR"
	NotificationTypeSuccess = "SUCCESS"
)

type Notification struct {
	ID        uint64
	UserID    string
	Type      string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
