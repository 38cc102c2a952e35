package routes

import (
	"github.com/gin-gonic/gin"

	contactController "github.com/junaidrashid-git/webshop/controllers/contact"
	healthController "github.com/junaidrashid-git/webshop/controllers/health"
	productcontroller "github.com/junaidrashid-git/webshop/controllers/product"
	reviewController "github.com/junaidrashid-git/webshop/controllers/review"
)

// SetupAPIRoutes registers the public form and catalog endpoints.
func SetupAPIRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", healthController.Health(d.DB))

	api := r.Group("/api")
	{
		api.POST("/contact", contactController.SubmitContact(d.DB.DB, d.Log))

		api.POST("/review", reviewController.SubmitReview(d.DB.DB, d.Log))
		api.GET("/review", reviewController.GetReviews(d.DB.DB, d.Log))

		api.GET("/products", productcontroller.GetProducts(d.DB.DB))
		api.GET("/products/:id", productcontroller.GetProductByID(d.DB.DB))
	}
}
