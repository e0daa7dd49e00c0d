package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proffy-io/proffy-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records latency and status per route template. Requests to the
// excluded routes, typically probes and the scrape endpoint itself, are not
// observed.
func Metrics(metricsSvc *service.MetricsService, excluded ...string) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, route := range excluded {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := skip[route]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
