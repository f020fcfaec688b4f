package models

import (
	"time"
)

// AnalyticsVisit is a write-once-then-patch-once page visit record.
// Analytics writes are fire-and-forget and must never fail a user action.
type AnalyticsVisit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"size:64;uniqueIndex;not null"`
	Device    string    `json:"device" gorm:"size:100"`
	Browser   string    `json:"browser" gorm:"size:100"`
	OS        string    `json:"os" gorm:"column:os;size:100"`
	Page      string    `json:"page" gorm:"size:255"`
	BookingID *uint     `json:"booking_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the AnalyticsVisit model
func (AnalyticsVisit) TableName() string {
	return "analytics_visits"
}

// AnalyticsVisitCreate represents the POST /analytics/visit body
type AnalyticsVisitCreate struct {
	SessionID string `json:"session_id"`
	Device    string `json:"device"`
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	Page      string `json:"page"`
}

// DashboardStats aggregates counts for the admin dashboard
type DashboardStats struct {
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	AcceptedBookings  int64   `json:"accepted_bookings"`
	DeclinedBookings  int64   `json:"declined_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalPorters      int64   `json:"total_porters"`
	OnlinePorters     int64   `json:"online_porters"`
	TotalReviews      int64   `json:"total_reviews"`
	TotalVisits       int64   `json:"total_visits"`
}
