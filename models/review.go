package models

import (
	"time"
)

// ReviewExperience is the categorical experience a passenger reports
type ReviewExperience string

const (
	ExperienceExcellent ReviewExperience = "excellent"
	ExperienceGood      ReviewExperience = "good"
	ExperienceAverage   ReviewExperience = "average"
	ExperiencePoor      ReviewExperience = "poor"
)

// IsValid reports whether e is one of the four experience values
func (e ReviewExperience) IsValid() bool {
	switch e {
	case ExperienceExcellent, ExperienceGood, ExperienceAverage, ExperiencePoor:
		return true
	default:
		return false
	}
}

// Review represents a passenger review tied to a completed booking.
// Reviews are created once and never mutated.
type Review struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	BookingID     uint             `json:"booking_id" gorm:"not null;uniqueIndex"`
	ReviewerName  string           `json:"reviewer_name" gorm:"size:255"`
	ReviewerPhone string           `json:"reviewer_phone" gorm:"size:20"`
	Rating        int              `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment       string           `json:"comment" gorm:"type:text;not null"`
	Experience    ReviewExperience `json:"experience" gorm:"type:varchar(20);not null"`
	PorterRating  int              `json:"porter_rating" gorm:"type:int;not null;check:porter_rating >= 1 AND porter_rating <= 5"`
	PorterID      uint             `json:"porter_id" gorm:"not null;index"`
	PorterName    string           `json:"porter_name" gorm:"size:255"` // denormalized for display
	CreatedAt     time.Time        `json:"created_at"`

	// Relationships
	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Porter  Porter  `json:"porter,omitempty" gorm:"foreignKey:PorterID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request structure for submitting a review
type ReviewCreate struct {
	BookingID     uint   `json:"booking_id" binding:"required"`
	ReviewerName  string `json:"reviewer_name"`
	ReviewerPhone string `json:"reviewer_phone"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment" binding:"required"`
	Experience    string `json:"experience" binding:"required"`
	PorterRating  int    `json:"porter_rating" binding:"required"`
	PorterID      uint   `json:"porter_id" binding:"required"`
}

// ReviewStats summarizes public review aggregates for the homepage
type ReviewStats struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int64   `json:"total_reviews"`
}

// PorterRanking is one row of the top-porters leaderboard
type PorterRanking struct {
	PorterID    uint    `json:"porter_id"`
	PorterName  string  `json:"porter_name"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}
