package domain

import "time"

// Notification is the message handed to the notification sink.
type Notification struct {
	Message  string   `json:"message"`
	Note     string   `json:"note,omitempty"`
	GroupIDs []string `json:"groupIds"`
}

// NotificationGroup is a configured messaging group that can receive back-office notices.
// GroupID is the opaque identifier of the group on the messaging platform.
type NotificationGroup struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	GroupID       string    `json:"group_id" db:"group_id"`
	Enabled       bool      `json:"enabled" db:"enabled"`
	NotifyOnOrder bool      `json:"notify_on_order" db:"notify_on_order"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
