package middleware

import (
	"cosmossdk.io/log"
	"github.com/labstack/echo/v4"
)

// LoggingMiddleware logs every request before it is dispatched.
func LoggingMiddleware(logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			logger.Info("received request", "method", req.Method, "path", req.URL.Path)
			return next(c)
		}
	}
}
