package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/api/metrics"
)

// Metrics records Prometheus metrics for every request except the scrape
// endpoint itself:
// - Total requests by method, route and status code
// - Request duration histogram
// - Requests currently in flight
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			// Render the error now so the recorded status is the one the client sees.
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
