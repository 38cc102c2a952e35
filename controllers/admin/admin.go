package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/webshop/models"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storage"
)

// GET /admin/users
func GetAllUsers(users *session.GormDirectory, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			log.Error("list users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /admin/contacts
func GetAllContacts(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts := []models.Contact{}
		if err := db.WithContext(c.Request.Context()).Order("created_at desc").Find(&contacts).Error; err != nil {
			log.Error("list contacts", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts"})
			return
		}
		c.JSON(http.StatusOK, contacts)
	}
}

// GET /admin/carts/:profile_id
//
// Shows the signed-in identity and every cart stored for a profile.
func GetProfileCarts(durable *storage.GormBackend, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := storage.NewBucket(durable, c.Param("profile_id"))

		keys, err := durable.Keys(ctx, bucket.Scope())
		if err != nil {
			log.Error("list storage keys", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read profile"})
			return
		}
		if len(keys) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		var current *models.Identity
		if _, err := bucket.Get(ctx, storage.KeyCurrentUser, &current); err != nil && !errors.Is(err, storage.ErrCorrupt) {
			log.Error("read identity", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read profile"})
			return
		}

		registry := models.CartRegistry{}
		if _, err := bucket.Get(ctx, storage.KeyUserCarts, &registry); err != nil {
			if !errors.Is(err, storage.ErrCorrupt) {
				log.Error("read cart registry", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read profile"})
				return
			}
			registry = models.CartRegistry{}
		}

		c.JSON(http.StatusOK, gin.H{
			"profileId":   bucket.Scope(),
			"keys":        keys,
			"currentUser": current,
			"carts":       registry,
		})
	}
}
