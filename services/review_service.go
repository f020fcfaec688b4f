package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"railporter-server/apperrors"
	"railporter-server/cache"
	"railporter-server/database"
	"railporter-server/models"
)

const (
	publicReviewsCacheKey = "reviews:public"
	topPortersCacheKey    = "reviews:top_porters"
	reviewsCacheTTL       = 5 * time.Minute
)

// ReviewService records post-completion reviews and maintains
// porter rating aggregates
type ReviewService struct{}

// NewReviewService creates a new review service
func NewReviewService() *ReviewService {
	return &ReviewService{}
}

// SubmitReview validates and persists a review for a completed booking,
// then recomputes the porter's aggregate rating. One review per booking.
func (s *ReviewService) SubmitReview(req *models.ReviewCreate) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewValidation("rating", "rating must be between 1 and 5")
	}
	if req.PorterRating < 1 || req.PorterRating > 5 {
		return nil, apperrors.NewValidation("porterRating", "porter rating must be between 1 and 5")
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil, apperrors.NewValidation("comment", "comment is required")
	}
	experience := models.ReviewExperience(req.Experience)
	if !experience.IsValid() {
		return nil, apperrors.NewValidation("experience", "experience must be one of excellent, good, average, poor")
	}

	var booking models.Booking
	if err := database.DB.First(&booking, req.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking", strconv.FormatUint(uint64(req.BookingID), 10))
		}
		return nil, err
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperrors.NewValidation("bookingId", "booking is not completed yet")
	}
	if booking.PorterID == nil {
		return nil, apperrors.NewValidation("bookingId", "booking has no assigned porter")
	}

	var existing int64
	if err := database.DB.Model(&models.Review{}).
		Where("booking_id = ?", req.BookingID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.NewConflict("booking already reviewed")
	}

	var porter models.Porter
	if err := database.DB.First(&porter, *booking.PorterID).Error; err != nil {
		return nil, err
	}

	review := models.Review{
		BookingID:     req.BookingID,
		ReviewerName:  strings.TrimSpace(req.ReviewerName),
		ReviewerPhone: booking.Phone,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
		Experience:    experience,
		PorterRating:  req.PorterRating,
		PorterID:      porter.ID,
		PorterName:    porter.Name,
	}
	if review.ReviewerName == "" {
		review.ReviewerName = booking.PassengerName
	}

	if err := database.DB.Create(&review).Error; err != nil {
		// Unique index on booking_id catches two concurrent submissions
		// that both passed the count above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.NewConflict("booking already reviewed")
		}
		return nil, err
	}

	if err := s.updatePorterRatingStats(porter.ID); err != nil {
		log.Printf("⚠️ Failed to update rating stats for porter %d: %v", porter.ID, err)
	}

	cache.Invalidate(context.Background(), publicReviewsCacheKey, topPortersCacheKey)

	log.Printf("✅ Review recorded for booking %d (porter %d rated %d)", req.BookingID, porter.ID, req.PorterRating)
	return &review, nil
}

// updatePorterRatingStats recomputes a porter's average rating and
// completed trip count from the reviews table
func (s *ReviewService) updatePorterRatingStats(porterID uint) error {
	var stats struct {
		AvgRating float64
		Total     int64
	}
	err := database.DB.Raw(`
		SELECT COALESCE(AVG(porter_rating), 0) as avg_rating, COUNT(*) as total
		FROM reviews WHERE porter_id = ?`, porterID).Scan(&stats).Error
	if err != nil {
		return err
	}

	return database.DB.Model(&models.Porter{}).
		Where("id = ?", porterID).
		Updates(map[string]interface{}{
			"rating":      stats.AvgRating,
			"total_trips": stats.Total,
		}).Error
}

// PublicReviews is the cached payload served to the landing page
type PublicReviews struct {
	Reviews []models.Review    `json:"reviews"`
	Stats   models.ReviewStats `json:"stats"`
}

// ListPublicReviews returns reviews newest-first with aggregate stats,
// optionally filtered to a minimum rating. The unfiltered listing is
// served from cache when available.
func (s *ReviewService) ListPublicReviews(minRating int) (*PublicReviews, error) {
	ctx := context.Background()
	cacheable := minRating <= 0

	if cacheable {
		if raw, ok := cache.Get(ctx, publicReviewsCacheKey); ok {
			var cached PublicReviews
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var reviews []models.Review
	query := database.DB.Order("created_at DESC").Limit(50)
	if minRating > 0 {
		query = query.Where("rating >= ?", minRating)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}

	var stats models.ReviewStats
	if err := database.DB.Raw(`
		SELECT COALESCE(AVG(rating), 0) as avg_rating, COUNT(*) as total_reviews
		FROM reviews`).Scan(&stats).Error; err != nil {
		return nil, err
	}

	result := &PublicReviews{Reviews: reviews, Stats: stats}

	if cacheable {
		if raw, err := json.Marshal(result); err == nil {
			cache.Set(ctx, publicReviewsCacheKey, raw, reviewsCacheTTL)
		}
	}
	return result, nil
}

// ListTopPorters ranks porters by average porter rating, breaking ties
// by review count. The full ranking is cached under one key so a new
// review invalidates every limit at once; the limit is applied after.
func (s *ReviewService) ListTopPorters(limit int) ([]models.PorterRanking, error) {
	if limit <= 0 {
		limit = 10
	}

	ctx := context.Background()
	if raw, ok := cache.Get(ctx, topPortersCacheKey); ok {
		var cached []models.PorterRanking
		if err := json.Unmarshal(raw, &cached); err == nil {
			return rankPorters(cached, limit), nil
		}
	}

	var rankings []models.PorterRanking
	err := database.DB.Raw(`
		SELECT r.porter_id, r.porter_name,
		       AVG(r.porter_rating) as avg_rating,
		       COUNT(*) as review_count
		FROM reviews r
		GROUP BY r.porter_id, r.porter_name`).Scan(&rankings).Error
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rankings); err == nil {
		cache.Set(ctx, topPortersCacheKey, raw, reviewsCacheTTL)
	}
	return rankPorters(rankings, limit), nil
}

// rankPorters sorts by average rating descending, then review count
// descending, and trims to limit
func rankPorters(rankings []models.PorterRanking, limit int) []models.PorterRanking {
	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].AvgRating != rankings[j].AvgRating {
			return rankings[i].AvgRating > rankings[j].AvgRating
		}
		return rankings[i].ReviewCount > rankings[j].ReviewCount
	})
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings
}
