package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "QlikForecast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a panic into a 500 envelope. The stack goes to the log only.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(perr),
						applogger.String("path", c.Request().URL.Path),
						applogger.String("request_id", GetRequestID(c)),
						applogger.String("stack", string(debug.Stack())),
					)
					if c.Response().Committed {
						return
					}
					err = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": http.StatusText(http.StatusInternalServerError),
						"data": []map[string]string{{
							"code":    "ERR_INTERNAL",
							"message": "Something went wrong",
						}},
					})
				}
			}()
			return next(c)
		}
	}
}
