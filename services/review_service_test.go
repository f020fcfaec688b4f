package services

import (
	"testing"

	"railporter-server/models"
)

func TestRankPortersOrdersByRatingThenCount(t *testing.T) {
	svc := []models.PorterRanking{
		{PorterID: 1, PorterName: "Ramesh", AvgRating: 4.2, ReviewCount: 12},
		{PorterID: 2, PorterName: "Suresh", AvgRating: 4.8, ReviewCount: 3},
		{PorterID: 3, PorterName: "Mahesh", AvgRating: 4.8, ReviewCount: 20},
		{PorterID: 4, PorterName: "Dinesh", AvgRating: 3.1, ReviewCount: 50},
	}

	ranked := rankPorters(svc, 10)

	want := []uint{3, 2, 1, 4}
	for i, id := range want {
		if ranked[i].PorterID != id {
			t.Fatalf("rank %d = porter %d, want %d", i, ranked[i].PorterID, id)
		}
	}
}

func TestRankPortersTrimsToLimit(t *testing.T) {
	rankings := []models.PorterRanking{
		{PorterID: 1, AvgRating: 5},
		{PorterID: 2, AvgRating: 4},
		{PorterID: 3, AvgRating: 3},
	}

	ranked := rankPorters(rankings, 2)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	if ranked[0].PorterID != 1 || ranked[1].PorterID != 2 {
		t.Fatalf("unexpected order: %+v", ranked)
	}
}

func TestSubmitReviewRejectsBadInput(t *testing.T) {
	base := models.ReviewCreate{
		BookingID:    1,
		Rating:       4,
		Comment:      "Quick and careful with the bags",
		Experience:   "good",
		PorterRating: 5,
	}
	svc := NewReviewService()

	cases := []struct {
		name   string
		mutate func(*models.ReviewCreate)
	}{
		{"rating too low", func(r *models.ReviewCreate) { r.Rating = 0 }},
		{"rating too high", func(r *models.ReviewCreate) { r.Rating = 6 }},
		{"porter rating out of range", func(r *models.ReviewCreate) { r.PorterRating = 7 }},
		{"empty comment", func(r *models.ReviewCreate) { r.Comment = "  " }},
		{"unknown experience", func(r *models.ReviewCreate) { r.Experience = "amazing" }},
	}

	for _, c := range cases {
		req := base
		c.mutate(&req)
		if _, err := svc.SubmitReview(&req); err == nil {
			t.Fatalf("%s: accepted", c.name)
		}
	}
}
