package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/junaidrashid-git/webshop/controllers/admin"
	productcontroller "github.com/junaidrashid-git/webshop/controllers/product"
	"github.com/junaidrashid-git/webshop/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	db := d.DB.DB
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.Config.AdminAPIKey))
	{
		adminGroup.GET("/users", adminController.GetAllUsers(d.Users, d.Log))

		adminGroup.GET("/contacts", adminController.GetAllContacts(db, d.Log))
		adminGroup.GET("/contacts/export-excel", adminController.ExportContactsToExcel(db, d.Log))
		adminGroup.GET("/reviews/export-excel", adminController.ExportReviewsToExcel(db, d.Log))

		adminGroup.GET("/carts/:profile_id", adminController.GetProfileCarts(d.Durable, d.Log))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}
	}
}
