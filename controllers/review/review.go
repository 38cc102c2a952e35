package reviewController

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/feedback"
	"github.com/junaidrashid-git/webshop/models"
)

const maxReviewLimit = 100

// POST /api/review
func SubmitReview(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input feedback.ReviewForm
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": feedback.ErrFieldsRequired.Error()})
			return
		}
		input = input.Normalize()
		if err := input.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		review := models.Review{
			Name:      input.Name,
			Message:   input.Message,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
			log.Error("save review", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review submitted!", "review": review})
	}
}

// GET /api/review?limit=
//
// Newest first. limit defaults to and is capped at 100.
func GetReviews(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxReviewLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			if n < limit {
				limit = n
			}
		}

		reviews := []models.Review{}
		if err := db.WithContext(c.Request.Context()).
			Order("created_at desc").Order("id desc").
			Limit(limit).
			Find(&reviews).Error; err != nil {
			log.Error("list reviews", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
