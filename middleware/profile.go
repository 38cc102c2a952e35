package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/auth"
)

const (
	ProfileCookie = "webshop_profile"
	TabCookie     = "webshop_tab"
	TabHeader     = "X-Tab-ID"

	profileIDKey = "profile_id"
	tabIDKey     = "tab_id"
)

// Profile makes sure every request carries a profile and a tab. The profile
// lives in a signed cookie that outlasts the browser session; the tab comes
// from the X-Tab-ID header or a session cookie. Missing or invalid values
// are replaced with new ones.
func Profile(secret []byte, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		secure := c.Request.TLS != nil
		c.SetSameSite(http.SameSiteLaxMode)

		var profileID string
		if token, err := c.Cookie(ProfileCookie); err == nil {
			profileID, _ = auth.ParseProfileToken(secret, token)
		}
		if profileID == "" {
			profileID = auth.NewProfileID()
			token, err := auth.IssueProfileToken(secret, profileID, ttl, time.Now())
			if err != nil {
				log.Error("issue profile token", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
				c.Abort()
				return
			}
			c.SetCookie(ProfileCookie, token, int(ttl.Seconds()), "/", "", secure, true)
		}

		tabID := c.GetHeader(TabHeader)
		if tabID == "" {
			tabID, _ = c.Cookie(TabCookie)
		}
		if tabID == "" {
			tabID = "tab_" + uuid.NewString()
			c.SetCookie(TabCookie, tabID, 0, "/", "", secure, true)
		}

		c.Set(profileIDKey, profileID)
		c.Set(tabIDKey, tabID)
		c.Next()
	}
}

// ProfileID returns the profile set by Profile.
func ProfileID(c *gin.Context) string { return c.GetString(profileIDKey) }

// TabID returns the tab set by Profile.
func TabID(c *gin.Context) string { return c.GetString(tabIDKey) }
