package middleware

import (
	"time"

	applogger "QlikForecast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs every request once the response is committed.
// 5xx responses are logged as errors and 4xx as warnings.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.Int("status", status),
				applogger.Duration("latency", time.Since(start)),
				applogger.Int64("bytes", c.Response().Size),
				applogger.String("request_id", GetRequestID(c)),
			}
			switch {
			case status >= 500:
				l.Error("http request", fields...)
			case status >= 400:
				l.Warn("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
			return nil
		}
	}
}
