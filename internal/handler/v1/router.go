package v1

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/randevuapp/randevu-api/internal/config"
	"github.com/randevuapp/randevu-api/internal/middleware"
	"github.com/randevuapp/randevu-api/pkg/auth"
	"github.com/randevuapp/randevu-api/pkg/metrics"
)

type Router struct {
	Auth        *AuthHandler
	Appointment *AppointmentHandler
	Doctor      *DoctorHandler
	JWTManager  *auth.JWTManager
	Collector   *metrics.Collector
}

func (rt *Router) Build(cfg *config.Config) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(rt.Collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)

	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimit(limiter))
	{
		authRoutes.POST("/register", rt.Auth.Register)
		authRoutes.POST("/login", rt.Auth.Login)
		authRoutes.POST("/admin/login", rt.Auth.AdminLogin)
		authRoutes.POST("/refresh", rt.Auth.Refresh)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(rt.JWTManager))
	{
		api.GET("/doctors", rt.Doctor.List)

		api.POST("/appointments", rt.Appointment.Create)
		api.GET("/appointments", rt.Appointment.ListMine)
		api.GET("/appointments/:id", rt.Appointment.Get)
		api.DELETE("/appointments/:id", rt.Appointment.Cancel)

		api.DELETE("/account", rt.Auth.DeleteAccount)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("/doctors", rt.Doctor.Add)
		admin.DELETE("/doctors/:id", rt.Doctor.Delete)
		admin.GET("/doctors/:id/appointments", rt.Appointment.ListByDoctor)
		admin.GET("/appointments", rt.Appointment.ListAll)
		admin.GET("/users", rt.Auth.ListUsers)
	}

	return r
}
