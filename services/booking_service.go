package services

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"railporter-server/apperrors"
	"railporter-server/database"
	"railporter-server/models"
	"railporter-server/utils"
)

// ActorRole identifies who is asking for a booking transition
type ActorRole string

const (
	ActorRolePassenger ActorRole = "passenger"
	ActorRolePorter    ActorRole = "porter"
	ActorRoleAdmin     ActorRole = "admin"
)

// StatusPublisher pushes booking transitions to live subscribers.
// The websocket hub implements it; a nil publisher is a no-op.
type StatusPublisher interface {
	PublishBookingStatus(booking *models.Booking)
}

// BookingService owns the booking lifecycle: creation, porter assignment,
// and the pending -> accepted/declined -> completed state machine.
type BookingService struct {
	matcher       PorterMatcher
	notifications *NotificationService
	publisher     StatusPublisher
}

// NewBookingService creates a booking service
func NewBookingService(matcher PorterMatcher, notifications *NotificationService, publisher StatusPublisher) *BookingService {
	return &BookingService{
		matcher:       matcher,
		notifications: notifications,
		publisher:     publisher,
	}
}

// transitionAllowed reports whether from -> to is a legal lifecycle edge
// and who may request it
func transitionAllowed(from, to models.BookingStatus, actor ActorRole) (legal bool, authorized bool) {
	switch {
	case from == models.BookingStatusPending && to == models.BookingStatusAccepted,
		from == models.BookingStatusPending && to == models.BookingStatusDeclined:
		// Porters and admins decide on pending bookings. Which porter is
		// allowed is checked against the assignment in TransitionStatus.
		return true, actor == ActorRolePorter || actor == ActorRoleAdmin
	case from == models.BookingStatusAccepted && to == models.BookingStatusCompleted:
		// Either side can confirm completion
		return true, true
	default:
		return false, false
	}
}

// CreateBooking validates the request, prices it server-side, assigns a
// porter and persists the booking in pending state
func (s *BookingService) CreateBooking(req *models.BookingCreate) (*models.Booking, error) {
	if err := validateBookingCreate(req); err != nil {
		return nil, err
	}

	breakdown, err := utils.CalculatePrice(req.Bags, req.WeightKg, req.LateNight, req.Priority)
	if err != nil {
		return nil, apperrors.NewValidation("bags", err.Error())
	}

	booking := models.Booking{
		ReferenceCode:      newReferenceCode(),
		PassengerName:      strings.TrimSpace(req.PassengerName),
		Phone:              req.Phone,
		PNR:                strings.ToUpper(strings.TrimSpace(req.PNR)),
		Station:            strings.TrimSpace(req.Station),
		TrainNumber:        req.TrainNumber,
		TrainName:          req.TrainName,
		Coach:              req.Coach,
		BoardingStation:    req.BoardingStation,
		BoardingCode:       req.BoardingCode,
		DestinationStation: req.DestinationStation,
		DestinationCode:    req.DestinationCode,
		DateOfJourney:      req.DateOfJourney,
		ArrivalTime:        req.ArrivalTime,
		Bags:               req.Bags,
		WeightKg:           req.WeightKg,
		LateNight:          req.LateNight,
		Priority:           req.Priority,
		TotalPrice:         breakdown.Total,
		Notes:              req.Notes,
		Status:             models.BookingStatusPending,
	}

	porter, err := s.matcher.Match(booking.Station)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// No porter anywhere right now. Keep the booking unassigned so
			// the presence job or an admin can route it later.
			log.Printf("⚠️ No online porter for station %s, booking stays unassigned", booking.Station)
		} else {
			return nil, err
		}
	} else {
		booking.PorterID = &porter.ID
		booking.Porter = porter
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %s created for %s at %s (₹%.0f)", booking.ReferenceCode, booking.Phone, booking.Station, booking.TotalPrice)

	s.notifications.NotifyBookingCreated(&booking)
	s.publish(&booking)

	return &booking, nil
}

// TransitionStatus moves a booking along the lifecycle. The write is a
// conditional UPDATE keyed on the expected current status, so two racing
// callers can never both win the same transition. Repeating an already
// applied transition returns the booking unchanged without renotifying.
//
// Pending decisions are restricted to the assigned porter (or an admin).
// A porter accepting an unassigned booking claims it in the same write.
// actorPorterID is 0 for passengers and admins.
func (s *BookingService) TransitionStatus(id uint, requested models.BookingStatus, actor ActorRole, actorPorterID uint) (*models.Booking, error) {
	if !requested.IsValid() || requested == models.BookingStatusPending {
		return nil, apperrors.NewValidation("status", "unknown target status")
	}

	var booking models.Booking
	if err := database.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", strconv.FormatUint(uint64(id), 10))
		}
		return nil, err
	}

	if booking.Status == requested {
		return &booking, nil
	}

	legal, authorized := transitionAllowed(booking.Status, requested, actor)
	if !legal {
		return nil, apperrors.NewInvalidTransition(string(booking.Status), string(requested))
	}
	if !authorized {
		return nil, apperrors.NewAuth("only a porter can act on a pending booking")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     requested,
		"updated_at": now,
	}
	if requested == models.BookingStatusCompleted {
		updates["completed_at"] = now
	}

	claiming := false
	if booking.Status == models.BookingStatusPending && actor == ActorRolePorter {
		switch {
		case booking.PorterID != nil && *booking.PorterID != actorPorterID:
			return nil, apperrors.NewAuth("booking is assigned to another porter")
		case booking.PorterID == nil && requested == models.BookingStatusAccepted:
			// Unassigned booking: accepting claims it
			updates["porter_id"] = actorPorterID
			claiming = true
		case booking.PorterID == nil:
			return nil, apperrors.NewAuth("booking is not assigned to you")
		}
	}

	result := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, booking.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost a race. Re-read and decide whether the winner already
		// applied our transition.
		if err := database.DB.First(&booking, id).Error; err != nil {
			return nil, err
		}
		if booking.Status == requested {
			if claiming && (booking.PorterID == nil || *booking.PorterID != actorPorterID) {
				return nil, apperrors.NewConflict("booking was claimed by another porter")
			}
			return &booking, nil
		}
		return nil, apperrors.NewInvalidTransition(string(booking.Status), string(requested))
	}

	booking.Status = requested
	booking.UpdatedAt = now
	if requested == models.BookingStatusCompleted {
		booking.CompletedAt = &now
	}
	if claiming {
		booking.PorterID = &actorPorterID
	}

	log.Printf("📡 Booking %d -> %s (by %s)", booking.ID, requested, actor)

	s.notifications.NotifyBookingTransition(&booking, requested)
	s.publish(&booking)

	return &booking, nil
}

// GetBooking fetches one booking with its assigned porter
func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.Preload("Porter").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", strconv.FormatUint(uint64(id), 10))
		}
		return nil, err
	}
	return &booking, nil
}

// ListBookingsForPorter returns a porter's bookings newest-first,
// optionally filtered by status
func (s *BookingService) ListBookingsForPorter(porterID uint, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	query := database.DB.Where("porter_id = ?", porterID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListBookingsForPhone returns a passenger's bookings newest-first
func (s *BookingService) ListBookingsForPhone(phone string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := database.DB.Preload("Porter").
		Where("phone = ?", phone).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) publish(booking *models.Booking) {
	if s.publisher != nil {
		s.publisher.PublishBookingStatus(booking)
	}
}

func validateBookingCreate(req *models.BookingCreate) error {
	if strings.TrimSpace(req.PassengerName) == "" {
		return apperrors.NewValidation("passengerName", "passenger name is required")
	}
	if !utils.ValidatePhoneNumber(req.Phone) {
		return apperrors.NewValidation("phone", "phone must be 10 digits")
	}
	if strings.TrimSpace(req.PNR) == "" {
		return apperrors.NewValidation("pnr", "PNR is required")
	}
	if strings.TrimSpace(req.Station) == "" {
		return apperrors.NewValidation("station", "station is required")
	}
	if req.Bags <= 0 {
		return apperrors.NewValidation("bags", "bag count must be positive")
	}
	if req.WeightKg <= 0 {
		return apperrors.NewValidation("weightKg", "weight must be positive")
	}
	return nil
}

// newReferenceCode builds a short passenger-facing booking code
func newReferenceCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RP" + strings.ToUpper(raw[:8])
}
