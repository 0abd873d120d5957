// Package http assembles the gin route tree and the HTTP server around it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/config"
	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/interfaces/http/handlers"
	"github.com/turtlebank/teenfin/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and optional middleware dependencies
// for the full route tree.  Nil optional fields disable the corresponding
// feature.
type RouterConfig struct {
	Survey *handlers.SurveyHandler
	Chat   *handlers.ChatHandler
	Users  *handlers.UserHandler
	Upload *handlers.UploadHandler
	Health *handlers.HealthHandler

	// RateLimiter, when set, guards the recommendation endpoint.
	RateLimiter middleware.Allower
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
	// MetricsObserver records per-request metrics when set.
	MetricsObserver middleware.HTTPObserver

	Logger logging.Logger
}

// NewRouter builds the engine with the global middleware chain and every
// route group.
func NewRouter(cfg config.ServerConfig, rc RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(rc.Logger))
	r.Use(middleware.RequestLogger(rc.Logger))
	r.Use(middleware.CORS())
	if rc.MetricsObserver != nil {
		r.Use(middleware.Metrics(rc.MetricsObserver))
	}
	if cfg.MaxBodySize > 0 {
		r.MaxMultipartMemory = cfg.MaxBodySize
	}

	if rc.Health != nil {
		r.GET("/healthz", rc.Health.Liveness)
		r.GET("/readyz", rc.Health.Readiness)
	}
	if rc.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(rc.MetricsHandler))
	}

	api := r.Group("/api")

	if rc.Survey != nil {
		api.GET("/survey", rc.Survey.Questions)
		recommendRoute := api.Group("")
		if rc.RateLimiter != nil {
			recommendRoute.Use(middleware.RateLimit(rc.RateLimiter))
		}
		recommendRoute.POST("/recommendations", rc.Survey.Recommend)
	}

	if rc.Chat != nil {
		api.POST("/chat/finance", rc.Chat.Chat)
	}

	if rc.Users != nil {
		users := api.Group("/users")
		users.GET("", rc.Users.List)
		users.POST("", rc.Users.Create)
		users.POST("/portal-move", rc.Users.PortalMove)
		users.POST("/job", rc.Users.UpdateJobByName)
		users.POST("/reward", rc.Users.Reward)
		users.GET("/:id", rc.Users.Get)
		users.POST("/:id/gold", rc.Users.AddGold)
		users.PUT("/:id/job", rc.Users.UpdateJob)

		api.POST("/auth/session", rc.Users.UpsertSession)
	}

	if rc.Upload != nil {
		api.POST("/upload", rc.Upload.Upload)
		api.GET("/files/:filename", rc.Upload.GetFile)
	}

	return r
}
