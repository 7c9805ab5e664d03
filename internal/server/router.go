// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tessera-api/api/swagger"
	"github.com/noah-isme/tessera-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tessera-api/internal/middleware"
	"github.com/noah-isme/tessera-api/internal/service"
	"github.com/noah-isme/tessera-api/pkg/config"
	"github.com/noah-isme/tessera-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tessera-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tessera-api/pkg/middleware/requestid"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps carries everything the router needs.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Schedule *handler.ScheduleHandler
	Courses  *handler.CourseHandler
	Sections *handler.SectionHandler
	DB       Pinger
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	metricsHandler := handler.NewMetricsHandler(d.Metrics)
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(d.Metrics, cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", readiness(d.DB))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())

	schedules := api.Group("/schedules")
	schedules.POST("/generate", d.Schedule.Generate)
	schedules.POST("/export", d.Schedule.Export)

	courses := api.Group("/courses")
	courses.GET("", d.Courses.List)
	courses.POST("", d.Courses.Create)
	courses.GET("/:id", d.Courses.Get)
	courses.PUT("/:id", d.Courses.Update)
	courses.DELETE("/:id", d.Courses.Delete)

	sections := api.Group("/sections")
	sections.GET("", d.Sections.List)
	sections.POST("", d.Sections.Create)
	sections.GET("/:id", d.Sections.Get)
	sections.PUT("/:id", d.Sections.Update)
	sections.DELETE("/:id", d.Sections.Delete)

	api.GET("/system/metrics", metricsHandler.Summary)

	return r
}

func readiness(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.FromContext(c.Request.Context(), nil).Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
