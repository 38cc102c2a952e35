package routes

import (
	"github.com/gin-gonic/gin"

	authController "github.com/junaidrashid-git/webshop/controllers/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps, profile gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	authGroup.Use(profile)
	{
		authGroup.POST("/signin", authController.SignIn(d.Storefronts, d.Log))
		authGroup.POST("/signup", authController.SignUp(d.Storefronts, d.Log))
		authGroup.POST("/social/:provider", authController.SocialSignIn(d.Storefronts, d.Log))
		authGroup.POST("/logout", authController.Logout(d.Storefronts, d.Log))
	}
}
