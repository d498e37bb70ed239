package model

import (
	"time"
)

// Notification statuses. The only sanctioned transition is new -> read.
const (
	NotificationNew  = "new"
	NotificationRead = "read"
)

// Notification is a flat record. RecipientID is an opaque optional reference,
// deliberately not a foreign key, so non-customer recipients stay possible.
type Notification struct {
	ID          int       `json:"id" db:"id"`
	Type        string    `json:"type" db:"type"`
	Content     string    `json:"content" db:"content"`
	Status      string    `json:"status" db:"status"`
	Priority    string    `json:"priority" db:"priority"`
	RecipientID *int      `json:"recipient_id" db:"recipient_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NotificationCreate represents data needed to create a notification.
type NotificationCreate struct {
	Type        string `json:"type" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=new read"`
	Priority    string `json:"priority" binding:"required"`
	RecipientID *int   `json:"recipient_id"`
}

// NotificationUpdate represents a partial update; nil fields are left
// untouched.
type NotificationUpdate struct {
	Type        *string `json:"type"`
	Content     *string `json:"content"`
	Status      *string `json:"status" binding:"omitempty,oneof=new read"`
	Priority    *string `json:"priority"`
	RecipientID *int    `json:"recipient_id"`
}
