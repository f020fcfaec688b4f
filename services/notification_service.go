package services

import (
	"fmt"
	"log"
	"time"

	"railporter-server/database"
	"railporter-server/models"
)

// NotificationService creates and reads per-actor notification feeds
type NotificationService struct{}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// statusMessages maps a booking status to the passenger-facing feed entry
var statusMessages = map[models.BookingStatus]struct {
	ntype, title, message string
}{
	models.BookingStatusAccepted: {
		models.NotificationBookingAccepted,
		"Porter Assigned",
		"A porter has accepted your booking and will meet you at your coach.",
	},
	models.BookingStatusDeclined: {
		models.NotificationBookingDeclined,
		"Booking Declined",
		"The porter could not take your booking. Please try again.",
	},
	models.BookingStatusCompleted: {
		models.NotificationBookingCompleted,
		"Service Completed",
		"Your luggage assistance is complete. Please rate your porter.",
	},
}

// Notify persists a notification for an actor
func (s *NotificationService) Notify(actorID string, actorType models.ActorType, ntype, title, message string, bookingID *uint, priority string) error {
	if priority == "" {
		priority = "normal"
	}
	notification := models.Notification{
		ActorID:   actorID,
		ActorType: actorType,
		Type:      ntype,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
		Priority:  priority,
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		return err
	}
	return nil
}

// NotifyBookingCreated tells the matched porter about a new pending booking
func (s *NotificationService) NotifyBookingCreated(booking *models.Booking) {
	if booking.PorterID == nil {
		return
	}
	porterActor := fmt.Sprintf("%d", *booking.PorterID)
	message := fmt.Sprintf("New booking at %s: %d bags, %.0fkg. Passenger %s.",
		booking.Station, booking.Bags, booking.WeightKg, booking.PassengerName)
	priority := "normal"
	if booking.Priority {
		priority = "high"
	}
	if err := s.Notify(porterActor, models.ActorPorter, models.NotificationBookingCreated,
		"New Booking Request", message, &booking.ID, priority); err != nil {
		log.Printf("⚠️ Failed to notify porter %s about booking %d: %v", porterActor, booking.ID, err)
	}
}

// NotifyBookingTransition tells the passenger about a lifecycle transition.
// On completion it also queues a review request.
func (s *NotificationService) NotifyBookingTransition(booking *models.Booking, status models.BookingStatus) {
	m, ok := statusMessages[status]
	if !ok {
		return
	}
	if err := s.Notify(booking.Phone, models.ActorPassenger, m.ntype, m.title, m.message, &booking.ID, "normal"); err != nil {
		log.Printf("⚠️ Failed to notify passenger %s about booking %d: %v", booking.Phone, booking.ID, err)
	}

	if status == models.BookingStatusCompleted {
		if err := s.Notify(booking.Phone, models.ActorPassenger, models.NotificationReviewRequest,
			"How was your porter?", "Share a quick rating to help other passengers.", &booking.ID, "low"); err != nil {
			log.Printf("⚠️ Failed to queue review request for booking %d: %v", booking.ID, err)
		}
	}
}

// List returns an actor's notifications newest-first plus the unread count
func (s *NotificationService) List(actorID string, actorType models.ActorType) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := database.DB.Where("actor_id = ?", actorID)
	if actorType != "" {
		query = query.Where("actor_type = ?", actorType)
	}

	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	countQuery := database.DB.Model(&models.Notification{}).Where("actor_id = ? AND is_read = ?", actorID, false)
	if actorType != "" {
		countQuery = countQuery.Where("actor_type = ?", actorType)
	}
	if err := countQuery.Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	return notifications, unread, nil
}

// MarkRead marks one notification read. Already-read or missing
// notifications are a no-op, never an error.
func (s *NotificationService) MarkRead(id uint) error {
	return database.DB.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		}).Error
}

// MarkAllRead marks every unread notification for an actor as read
func (s *NotificationService) MarkAllRead(actorID string) error {
	return database.DB.Model(&models.Notification{}).
		Where("actor_id = ? AND is_read = ?", actorID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		}).Error
}
