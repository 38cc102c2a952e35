package cartControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	storefrontController "github.com/junaidrashid-git/webshop/controllers/storefront"
	"github.com/junaidrashid-git/webshop/models"
	"github.com/junaidrashid-git/webshop/storefront"
)

// CartItemInput is one add-to-cart click. The price is whatever the page
// showed.
type CartItemInput struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price" binding:"required"`
}

// GET /storefront/cart
func GetCart(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		items := s.Cart()
		c.JSON(http.StatusOK, gin.H{
			"items":      items,
			"totalCount": items.TotalCount(),
			"total":      models.FormatPrice(items.TotalPrice()),
		})
	})
}

// POST /storefront/cart
func AddCartItem(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		frame, err := s.AddItem(c.Request.Context(), input.Name, *input.Price)
		storefrontController.Respond(c, log, "Item added to cart", frame, err)
	})
}

// DELETE /storefront/cart/*name
//
// Product names may contain "/", so the name is the whole rest of the path.
func DeleteCartItem(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		name := strings.TrimPrefix(c.Param("name"), "/")
		if strings.TrimSpace(name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required", "field": "name"})
			return
		}
		frame, err := s.RemoveItem(c.Request.Context(), name)
		storefrontController.Respond(c, log, "Item removed from cart", frame, err)
	})
}

// DELETE /storefront/cart
func ClearCart(f *storefront.Factory, log *zap.Logger) gin.HandlerFunc {
	return storefrontController.Handle(f, log, func(c *gin.Context, s *storefront.Storefront) {
		frame, err := s.ClearCart(c.Request.Context())
		storefrontController.Respond(c, log, "Cart cleared", frame, err)
	})
}
