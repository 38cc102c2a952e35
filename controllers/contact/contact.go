package contactController

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/feedback"
	"github.com/junaidrashid-git/webshop/models"
)

// POST /api/contact
func SubmitContact(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input feedback.ContactForm
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": feedback.ErrFieldsRequired.Error()})
			return
		}
		input = input.Normalize()
		if err := input.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		contact := models.Contact{
			Name:      input.Name,
			Email:     input.Email,
			Message:   input.Message,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.WithContext(c.Request.Context()).Create(&contact).Error; err != nil {
			log.Error("save contact", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending message."})
			return
		}

		log.Info("contact message received", zap.Uint("contact_id", contact.ID))
		c.JSON(http.StatusCreated, gin.H{"message": "Message sent!"})
	}
}
