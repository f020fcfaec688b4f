package models

import (
	"time"

	"gorm.io/gorm"
)

// Porter represents a registered luggage porter
type Porter struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	BadgeNumber    string         `json:"badge_number" gorm:"size:20;uniqueIndex;not null"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	PhoneNumber    string         `json:"phone_number" gorm:"size:20;uniqueIndex;not null"`
	Station        string         `json:"station" gorm:"size:100;not null;index"`
	PasswordHash   string         `json:"-" gorm:"size:255;not null"`
	ProfilePhoto   *string        `json:"profile_photo" gorm:"type:varchar(500)"`
	Rating         float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalTrips     int            `json:"total_trips" gorm:"default:0"`
	IsOnline       bool           `json:"is_online" gorm:"default:false"`
	IsVerified     bool           `json:"is_verified" gorm:"default:false"`
	Experience     string         `json:"experience" gorm:"size:100"`
	Specialization string         `json:"specialization" gorm:"size:100"`
	Languages      string         `json:"languages" gorm:"size:255"`
	LastSeenAt     *time.Time     `json:"last_seen_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:PorterID"`
}

// TableName specifies the table name for the Porter model
func (Porter) TableName() string {
	return "porters"
}

// PorterRegister represents the multipart registration form fields
// (the profile photo arrives as a separate file part).
type PorterRegister struct {
	Name           string `form:"name" binding:"required"`
	PhoneNumber    string `form:"phone_number" binding:"required"`
	Password       string `form:"password" binding:"required,min=6"`
	BadgeNumber    string `form:"badge_number" binding:"required"`
	Station        string `form:"station" binding:"required"`
	Experience     string `form:"experience"`
	Specialization string `form:"specialization"`
	Languages      string `form:"languages"`
}

// PorterLogin represents the login request
type PorterLogin struct {
	PhoneNumber string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// PorterStatusUpdate represents the PATCH /porter/:id/status body
type PorterStatusUpdate struct {
	IsOnline *bool `json:"isOnline" binding:"required"`
}

// PorterProfile is the public profile shape returned to clients.
// Contact details are only included once a booking is accepted.
type PorterProfile struct {
	ID             uint    `json:"id"`
	BadgeNumber    string  `json:"badge_number"`
	Name           string  `json:"name"`
	PhoneNumber    string  `json:"phone_number"`
	Station        string  `json:"station"`
	ProfilePhoto   *string `json:"profile_photo"`
	Rating         float64 `json:"rating"`
	TotalTrips     int     `json:"total_trips"`
	IsOnline       bool    `json:"is_online"`
	IsVerified     bool    `json:"is_verified"`
	Experience     string  `json:"experience"`
	Specialization string  `json:"specialization"`
	Languages      string  `json:"languages"`
}

// Profile converts a Porter into its public shape
func (p *Porter) Profile() PorterProfile {
	return PorterProfile{
		ID:             p.ID,
		BadgeNumber:    p.BadgeNumber,
		Name:           p.Name,
		PhoneNumber:    p.PhoneNumber,
		Station:        p.Station,
		ProfilePhoto:   p.ProfilePhoto,
		Rating:         p.Rating,
		TotalTrips:     p.TotalTrips,
		IsOnline:       p.IsOnline,
		IsVerified:     p.IsVerified,
		Experience:     p.Experience,
		Specialization: p.Specialization,
		Languages:      p.Languages,
	}
}
