package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railporter-server/models"
)

// RegisterReviewRoutes registers review submission and public listings
func RegisterReviewRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.POST("", createReview)
		reviews.GET("/public", getPublicReviews)
		reviews.GET("/top-porters", getTopPorters)
	}
}

func createReview(c *gin.Context) {
	var req models.ReviewCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		// Also catches non-integer ratings, which fail the int bind
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid review data: " + err.Error(),
		})
		return
	}

	review, err := reviewService.SubmitReview(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
	})
}

func getPublicReviews(c *gin.Context) {
	minRating := 0
	if raw := c.Query("min_rating"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 5 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "min_rating must be an integer between 1 and 5",
			})
			return
		}
		minRating = parsed
	}

	result, err := reviewService.ListPublicReviews(minRating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": result.Reviews,
		"stats":   result.Stats,
	})
}

func getTopPorters(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "limit must be an integer between 1 and 100",
			})
			return
		}
		limit = parsed
	}

	rankings, err := reviewService.ListTopPorters(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"porters": rankings,
	})
}
