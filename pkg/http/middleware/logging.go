package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "ComRisk/pkg/logger"
)

// RequestLogging logs HTTP requests with the structured logger.
// Probe and metrics endpoints are skipped to keep the log quiet.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/metrics" || req.URL.Path == "/healthz" {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			l.Info("http request",
				applogger.String("method", req.Method),
				applogger.String("path", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency", time.Since(start)),
			)

			return err
		}
	}
}
