package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/webshop/controllers/cart"
	storefrontController "github.com/junaidrashid-git/webshop/controllers/storefront"
)

// SetupStorefrontRoutes registers all "/storefront/*" endpoints.
func SetupStorefrontRoutes(r *gin.Engine, d Deps, profile gin.HandlerFunc) {
	group := r.Group("/storefront")
	group.Use(profile)
	{
		group.GET("/view", storefrontController.GetView(d.Storefronts, d.Log))
		group.GET("/ws", storefrontController.ViewWebSocket(d.Storefronts, d.Hub, d.Log))

		cartGroup := group.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.Storefronts, d.Log))
			cartGroup.POST("", cartControllers.AddCartItem(d.Storefronts, d.Log))
			cartGroup.DELETE("/*name", cartControllers.DeleteCartItem(d.Storefronts, d.Log))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Storefronts, d.Log))
		}
	}
}
