package storefrontController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/cart"
	"github.com/junaidrashid-git/webshop/middleware"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storefront"
	"github.com/junaidrashid-git/webshop/view"
)

// Handle opens the caller's storefront for the duration of fn.
func Handle(f *storefront.Factory, log *zap.Logger, fn func(c *gin.Context, s *storefront.Storefront)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, release, err := f.Open(c.Request.Context(), middleware.ProfileID(c), middleware.TabID(c))
		if err != nil {
			log.Error("open storefront", zap.String("profile", middleware.ProfileID(c)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		defer release()
		fn(c, s)
	}
}

// Respond writes {message, frame} or maps err to a status.
func Respond(c *gin.Context, log *zap.Logger, message string, frame view.Frame, err error) {
	if err != nil {
		WriteError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "frame": frame})
}

// WriteError maps session and cart errors to HTTP statuses.
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	var sessionErr *session.ValidationError
	var cartErr *cart.ValidationError
	switch {
	case errors.As(err, &sessionErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": sessionErr.Message, "field": sessionErr.Field})
	case errors.As(err, &cartErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": cartErr.Message, "field": cartErr.Field})
	case errors.Is(err, session.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, session.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
	case errors.Is(err, session.ErrUnknownProvider):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown sign-in provider"})
	default:
		log.Error("storefront request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// GET /storefront/view
func GetView(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		c.JSON(http.StatusOK, s.Frame())
	})
}

// GET /storefront/ws
//
// The current frame is sent on connect; every later change of the profile,
// from any tab, is pushed as it happens.
func ViewWebSocket(f *storefront.Factory, hub *view.Hub, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := middleware.ProfileID(c)

		s, release, err := f.Open(c.Request.Context(), profileID, middleware.TabID(c))
		if err != nil {
			log.Error("open storefront", zap.String("profile", profileID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		initial := s.Frame()
		// The profile stays locked until the connection is registered, so no
		// change can land between the initial frame and the first push.
		defer release()

		if err := hub.Serve(c.Writer, c.Request, profileID, &initial, release); err != nil {
			log.Debug("view websocket upgrade failed", zap.Error(err))
		}
	}
}
