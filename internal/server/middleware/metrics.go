package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/pkg/metrics"
)

// MetricsMiddleware records method, route template and status of every
// request.
func MetricsMiddleware(collector *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			collector.ObserveHTTP(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	}
}
