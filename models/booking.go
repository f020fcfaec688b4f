package models

import (
	"time"
)

// BookingStatus represents the current status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusDeclined || s == BookingStatusCompleted
}

// IsValid reports whether s is one of the four lifecycle states.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusDeclined, BookingStatusCompleted:
		return true
	default:
		return false
	}
}

// Booking represents a passenger's request for porter assistance
type Booking struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	ReferenceCode      string        `json:"reference_code" gorm:"type:varchar(12);uniqueIndex"`
	PassengerName      string        `json:"passenger_name" gorm:"size:255;not null"`
	Phone              string        `json:"phone" gorm:"size:20;not null;index"`
	PNR                string        `json:"pnr" gorm:"column:pnr;size:20;not null"`
	Station            string        `json:"station" gorm:"size:100;not null"`
	TrainNumber        string        `json:"train_number" gorm:"size:20"`
	TrainName          string        `json:"train_name" gorm:"size:100"`
	Coach              string        `json:"coach" gorm:"size:10"`
	BoardingStation    string        `json:"boarding_station" gorm:"size:100"`
	BoardingCode       string        `json:"boarding_code" gorm:"size:10"`
	DestinationStation string        `json:"destination_station" gorm:"size:100"`
	DestinationCode    string        `json:"destination_code" gorm:"size:10"`
	DateOfJourney      string        `json:"date_of_journey" gorm:"size:20"`
	ArrivalTime        string        `json:"arrival_time" gorm:"size:20"`
	Bags               int           `json:"bags" gorm:"not null"`
	WeightKg           float64       `json:"weight_kg" gorm:"type:decimal(6,2);not null"`
	LateNight          bool          `json:"late_night" gorm:"default:false"`
	Priority           bool          `json:"priority" gorm:"default:false"`
	TotalPrice         float64       `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Notes              string        `json:"notes" gorm:"size:1000"`
	PorterID           *uint         `json:"porter_id" gorm:"index"` // nil until a porter is matched
	Status             BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','accepted','declined','completed')"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt        *time.Time    `json:"completed_at"`

	// Relationships
	Porter *Porter `json:"porter,omitempty" gorm:"foreignKey:PorterID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// BookingCreate represents the request structure for creating a booking.
// Price is never read from the client; it is recomputed server-side.
type BookingCreate struct {
	PassengerName      string  `json:"passenger_name" binding:"required"`
	Phone              string  `json:"phone" binding:"required"`
	PNR                string  `json:"pnr" binding:"required"`
	Station            string  `json:"station" binding:"required"`
	TrainNumber        string  `json:"train_number"`
	TrainName          string  `json:"train_name"`
	Coach              string  `json:"coach"`
	BoardingStation    string  `json:"boarding_station"`
	BoardingCode       string  `json:"boarding_code"`
	DestinationStation string  `json:"destination_station"`
	DestinationCode    string  `json:"destination_code"`
	DateOfJourney      string  `json:"date_of_journey"`
	ArrivalTime        string  `json:"arrival_time"`
	Bags               int     `json:"bags" binding:"required"`
	WeightKg           float64 `json:"weight_kg" binding:"required"`
	LateNight          bool    `json:"late_night"`
	Priority           bool    `json:"priority"`
	Notes              string  `json:"notes"`
}

// BookingStatusUpdate represents the PATCH /bookings/:id/status body
type BookingStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
