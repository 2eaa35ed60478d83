package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tranquility/internal/cache"
	"tranquility/internal/config"
	"tranquility/internal/middleware"
	"tranquility/internal/modules/admin"
	"tranquility/internal/modules/auth"
	"tranquility/internal/modules/booking"
	"tranquility/internal/modules/catalog"
	"tranquility/internal/modules/live"
	"tranquility/internal/observability"
	"tranquility/internal/pkg/apperror"
	jwtsvc "tranquility/internal/pkg/jwt"
	"tranquility/internal/pkg/response"
	"tranquility/internal/repository"
)

const uploadsPath = "/uploads"

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Cache    cache.Cache
	Hub      *live.Hub
	Logger   zerolog.Logger
	Registry *prometheus.Registry
}

// NewRouter builds the gin engine with every module mounted under /api/v1.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	userRepo := repository.NewUserRepository(d.DB)
	roomTypeRepo := repository.NewRoomTypeRepository(d.DB)
	roomRepo := repository.NewRoomRepository(d.DB)
	amenityRepo := repository.NewAmenityRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	statsRepo := repository.NewStatsRepository(d.DB)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := middleware.NewAuthenticator(jwtService, userRepo)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService, jwtService.TTL()))

	images := catalog.NewDiskImageStore(cfg.UploadDir, uploadsPath)
	catalogHandler := catalog.NewHandler(catalog.NewService(
		roomTypeRepo, roomRepo, amenityRepo, bookingRepo, images, d.Cache, cfg.CacheTTL,
	))

	var notifier booking.Notifier
	if d.Hub != nil {
		notifier = d.Hub
	}
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, roomRepo, userRepo, notifier))

	adminHandler := admin.NewHandler(admin.NewService(userRepo, bookingRepo, statsRepo))

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Logger),
		middleware.Metrics(),
		middleware.CORS(cfg.Origins()),
	)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.KindNotFound, "Route not found")
	})

	r.GET("/health", health(d.DB))
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(observability.MetricsHandler(d.Registry)))
	}
	r.Static(uploadsPath, cfg.UploadDir)

	v1 := r.Group("/api/v1")

	// public
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRPS, cfg.LoginBurst)
	authHandler.RegisterRoutes(v1, loginLimiter.Middleware())
	catalogHandler.RegisterRoutes(v1)
	bookingHandler.RegisterPublicRoutes(v1)

	// signed-in users
	protected := v1.Group("")
	protected.Use(authenticator.JWTAuth())
	{
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterProtectedRoutes(protected)
	}

	// front desk
	staff := v1.Group("/admin")
	staff.Use(authenticator.JWTAuth(), middleware.StaffOnly())
	{
		bookingHandler.RegisterAdminRoutes(staff)
		adminHandler.RegisterStaffRoutes(staff)
	}

	// administrators
	admins := v1.Group("/admin")
	admins.Use(authenticator.JWTAuth(), middleware.AdminOnly())
	{
		catalogHandler.RegisterAdminRoutes(admins)
		adminHandler.RegisterRoutes(admins)
	}

	// the websocket handshake authenticates itself
	if d.Hub != nil {
		live.NewHandler(d.Hub, authenticator, cfg.Origins()).RegisterRoutes(v1.Group("/admin"))
	}

	return r
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
