package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/metrics"
)

// RequestLogger logs one line per request and counts it. Handler errors are
// passed to echo's error handler first so the logged status is final.
func RequestLogger(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(res.Status)).Inc()

			fields := []interface{}{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency", time.Since(start),
				"remote_ip", c.RealIP(),
			}
			if res.Status >= 500 {
				logger.Warnw("request", fields...)
			} else {
				logger.Infow("request", fields...)
			}
			return nil
		}
	}
}
