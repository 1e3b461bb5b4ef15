package middleware

import (
	"shoply/pkg/metrics"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics records request latency per method and route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, path).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}
