// Package api assembles the HTTP surface.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"lucidly/internal/api/controllers"
	"lucidly/internal/services"
	mem "lucidly/pkg/memcache"
	"lucidly/pkg/metrics"
	"lucidly/pkg/middleware"
)

type RouterParams struct {
	fx.In

	Log                  *zap.Logger
	Sessions             services.SessionServiceInterface
	Limiters             mem.LimiterStore
	CORSOrigins          []string `name:"cors_origins"`
	AccountController    *controllers.AccountController
	DreamController      *controllers.DreamController
	EnrichmentController *controllers.EnrichmentController
	HealthController     *controllers.HealthController
}

func NewRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(metrics.GinMiddleware())
	r.Use(cors.New(corsConfig(p.CORSOrigins)))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := middleware.SessionAuthMiddleware(p.Sessions)
	throttle := middleware.RateLimitMiddleware(p.Limiters, p.Log)

	api := r.Group("/api")
	api.GET("/health", p.HealthController.Health)
	api.GET("/gallery/dreams", p.DreamController.Gallery)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", throttle, p.AccountController.Register)
	authGroup.POST("/login", throttle, p.AccountController.Login)
	authGroup.POST("/logout", p.AccountController.Logout)
	authGroup.GET("/me", auth, p.AccountController.Me)
	authGroup.PATCH("/me", auth, p.AccountController.UpdateProfile)
	authGroup.DELETE("/account", auth, p.AccountController.DeleteAccount)
	authGroup.POST("/reset-tokens", auth, p.AccountController.ResetTokens)

	dreams := api.Group("/dreams", auth)
	dreams.GET("", p.DreamController.ListDreams)
	dreams.POST("", p.DreamController.CreateDream)
	dreams.GET("/:id", p.DreamController.GetDream)
	dreams.PATCH("/:id", p.DreamController.UpdateDream)
	dreams.DELETE("/:id", p.DreamController.DeleteDream)
	dreams.POST("/:id/generate-image", throttle, p.EnrichmentController.GenerateImage)
	dreams.POST("/:id/generate-video", throttle, p.EnrichmentController.GenerateVideo)
	dreams.POST("/:id/lucy-interpretation", throttle, p.EnrichmentController.Interpret)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
		ExposeHeaders: []string{"X-Trace-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
