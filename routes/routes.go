package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"service-connect-server/config"
	"service-connect-server/middleware"
	"service-connect-server/services"
	"service-connect-server/types"
	ws "service-connect-server/websocket"
)

// API bundles the services the HTTP handlers call into
type API struct {
	Config        *config.Config
	JWT           *services.JWTService
	Catalog       *services.CatalogService
	Users         *services.UserService
	Workers       *services.WorkerService
	Admins        *services.AdminService
	Matching      *services.MatchingService
	Requests      *services.RequestService
	Quotes        *services.QuoteService
	Media         *services.MediaService
	Notifications *ws.Handler
	RateLimiter   *middleware.RateLimiter
}

// NewAPI wires the services over db. Events go out through registry and
// uploader may be nil when photo storage is not configured.
func NewAPI(cfg *config.Config, db *gorm.DB, registry *ws.Registry, uploader services.PhotoUploader) *API {
	workers := services.NewWorkerService(db)
	matching := services.NewMatchingService(db)

	return &API{
		Config:        cfg,
		JWT:           services.NewJWTService(cfg.JWT),
		Catalog:       services.NewCatalogService(db),
		Users:         services.NewUserService(db),
		Workers:       workers,
		Admins:        services.NewAdminService(db),
		Matching:      matching,
		Requests:      services.NewRequestService(db, matching, registry),
		Quotes:        services.NewQuoteService(db, registry),
		Media:         services.NewMediaService(uploader, workers, cfg.Cloudinary.Folder),
		Notifications: ws.NewHandler(registry, cfg.CORS.AllowedOrigins),
	}
}

// NewRouter builds the gin engine with the middleware stack and every route
func NewRouter(api *API) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORS(api.Config.CORS))
	router.Use(middleware.InputValidationMiddleware())
	if api.RateLimiter != nil {
		router.Use(api.RateLimiter.Middleware())
	}
	router.Use(middleware.AuditLogMiddleware())

	router.GET("/health", health)

	auth := middleware.NewAuthenticator(api.JWT, api.Config.Session.CookieName)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		RegisterCatalogRoutes(v1, api)
		RegisterAuthRoutes(v1.Group("/auth"), api)

		protected := v1.Group("", auth.Required())
		protected.GET("/ws/notifications", api.notifications)

		RegisterRequestRoutes(protected, api)
		RegisterAddressRoutes(protected.Group("/addresses", middleware.RequireRole(types.RoleUser)), api)
		RegisterWorkerRoutes(protected.Group("/worker", middleware.RequireRole(types.RoleWorker)), api)
		RegisterAdminRoutes(protected.Group("/admin", middleware.RequireRole(types.RoleAdmin)), api)
	}

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service Connect server is running",
		"time":    time.Now().UTC(),
	})
}

// notifications upgrades to the live event stream of the caller
func (api *API) notifications(c *gin.Context) {
	api.Notifications.Serve(c.Writer, c.Request, middleware.CurrentActor(c))
}
