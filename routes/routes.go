package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/webshop/config"
	"github.com/junaidrashid-git/webshop/database"
	"github.com/junaidrashid-git/webshop/middleware"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storage"
	"github.com/junaidrashid-git/webshop/storefront"
	"github.com/junaidrashid-git/webshop/view"
)

// Deps is everything the handlers need.
type Deps struct {
	Config      *config.Config
	DB          *database.DB
	Durable     *storage.GormBackend
	Users       *session.GormDirectory
	Storefronts *storefront.Factory
	Hub         *view.Hub
	Log         *zap.Logger
}

// NewEngine returns a gin engine with the middleware stack and every route.
func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-KEY", middleware.TabHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry-point that wires up the public API, the
// storefront session routes and the admin group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public contact / review / catalog routes (no profile)
	SetupAPIRoutes(r, d)

	// Sign-in and the storefront share the profile cookie
	profile := middleware.Profile([]byte(d.Config.JWTSecret), d.Config.ProfileTTL, d.Log)
	SetupAuthRoutes(r, d, profile)
	SetupStorefrontRoutes(r, d, profile)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, d)
}
