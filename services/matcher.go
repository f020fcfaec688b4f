package services

import (
	"errors"

	"gorm.io/gorm"

	"railporter-server/apperrors"
	"railporter-server/database"
	"railporter-server/models"
)

// PorterMatcher picks the porter a new booking should be routed to
type PorterMatcher interface {
	Match(station string) (*models.Porter, error)
}

// firstOnlineMatcher routes to the most recently seen online porter at the
// booking's station, falling back to any online porter when the station has
// none on shift.
type firstOnlineMatcher struct{}

// NewPorterMatcher creates the default station-first matcher
func NewPorterMatcher() PorterMatcher {
	return &firstOnlineMatcher{}
}

func (m *firstOnlineMatcher) Match(station string) (*models.Porter, error) {
	var porter models.Porter

	err := database.DB.
		Where("is_online = ? AND station = ?", true, station).
		Order("last_seen_at DESC NULLS LAST").
		First(&porter).Error
	if err == nil {
		return &porter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// No porter on shift at this station, widen to any online porter
	err = database.DB.
		Where("is_online = ?", true).
		Order("last_seen_at DESC NULLS LAST").
		First(&porter).Error
	if err == nil {
		return &porter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, apperrors.NewNotFound("porter", station)
}
