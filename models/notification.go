package models

import (
	"time"
)

// ActorType identifies which side of the marketplace a notification targets
type ActorType string

const (
	ActorPassenger ActorType = "passenger"
	ActorPorter    ActorType = "porter"
	ActorAdmin     ActorType = "admin"
)

// Notification types emitted by booking lifecycle transitions
const (
	NotificationBookingCreated   = "booking_created"
	NotificationBookingAccepted  = "booking_accepted"
	NotificationBookingDeclined  = "booking_declined"
	NotificationBookingCompleted = "booking_completed"
	NotificationReviewRequest    = "review_request"
)

// Notification is a per-actor lifecycle event surfaced by polling.
// ActorID is a porter ID for porters and a phone number for passengers.
// Sound/visual alert bookkeeping is a client concern and is not persisted
// here; only the read flag is authoritative server state.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ActorID   string    `json:"actor_id" gorm:"size:40;not null;index"`
	ActorType ActorType `json:"actor_type" gorm:"type:varchar(20);not null"`
	Type      string    `json:"type" gorm:"size:40;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"size:1000;not null"`
	BookingID *uint     `json:"booking_id"`
	Priority  string    `json:"priority" gorm:"size:20;default:'normal'"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
