package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/middleware"
	"github.com/proffy-io/proffy-api/internal/service"
	"github.com/proffy-io/proffy-api/pkg/logger"
	corsmiddleware "github.com/proffy-io/proffy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/proffy-io/proffy-api/pkg/middleware/requestid"
)

// RouterOptions controls which surfaces the router exposes.
type RouterOptions struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableMetrics  bool
	EnableDocs     bool
}

// Router groups the handlers mounted on the engine.
type Router struct {
	Classes     *ClassHandler
	Connections *ConnectionHandler
	Metrics     *MetricsHandler
}

// Engine builds the gin engine with the standard middleware chain.
func (r Router) Engine(opts RouterOptions, logr *zap.Logger, metricsSvc *service.MetricsService) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(logr))
	engine.Use(corsmiddleware.New(opts.AllowedOrigins))
	engine.Use(middleware.Metrics(metricsSvc, "/health", "/ready", "/metrics"))

	engine.GET("/health", r.Metrics.Health)
	engine.GET("/ready", r.Metrics.Ready)
	if opts.EnableMetrics {
		engine.GET("/metrics", r.Metrics.Prometheus)
	}
	if opts.EnableDocs {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(normalizePrefix(opts.APIPrefix))
	api.GET("/classes", r.Classes.Search)
	api.POST("/classes", r.Classes.Create)
	api.GET("/classes/:id/schedule", r.Classes.Schedule)
	api.POST("/connections", r.Connections.Create)
	api.GET("/connections", r.Connections.Count)

	return engine
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return "/"
	}
	return "/" + prefix
}
