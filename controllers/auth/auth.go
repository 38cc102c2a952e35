package authController

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	storefrontController "github.com/junaidrashid-git/webshop/controllers/storefront"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storefront"
)

// POST /auth/signin
func SignIn(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		var input session.Credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		frame, err := s.SignIn(c.Request.Context(), input)
		storefrontController.Respond(c, log, "Signed in successfully", frame, err)
	})
}

// POST /auth/signup
func SignUp(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		var input session.SignUpForm
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		frame, err := s.SignUp(c.Request.Context(), input)
		if err != nil {
			storefrontController.WriteError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully", "frame": frame})
	})
}

// POST /auth/social/:provider
func SocialSignIn(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		frame, err := s.SocialSignIn(c.Request.Context(), c.Param("provider"))
		storefrontController.Respond(c, log, "Signed in successfully", frame, err)
	})
}

// POST /auth/logout
//
// Callers that are not on the landing page get "redirect": "/" so the page
// can navigate home.
func Logout(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		frame, err := s.Logout(c.Request.Context())
		if err != nil {
			storefrontController.WriteError(c, log, err)
			return
		}
		resp := gin.H{"message": "Signed out", "frame": frame}
		if !onLandingPage(c) {
			resp["redirect"] = "/"
		}
		c.JSON(http.StatusOK, resp)
	})
}

// onLandingPage reads the page path from ?from= or the Referer header.
func onLandingPage(c *gin.Context) bool {
	from := c.Query("from")
	if from == "" {
		ref, err := url.Parse(c.GetHeader("Referer"))
		if err != nil {
			return true
		}
		from = ref.Path
	}
	switch from {
	case "", "/", "/index.html":
		return true
	}
	return false
}
