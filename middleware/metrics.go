package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimora_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"path", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimora_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
)

// MetricsMiddleware records a counter and latency histogram per request,
// labeled with the route pattern (not the raw URL, so /api/orders/:orderID
// stays one series).
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		path := c.Path()
		if path == "" {
			path = c.Request().URL.Path
		}
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		httpRequests.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(path, c.Request().Method).Observe(time.Since(start).Seconds())
		return err
	}
}
