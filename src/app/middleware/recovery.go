package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"marketplace/src/app/http/response"
)

// Recovery turns a panic in a handler into a 500 response. The log entry names
// the matched route and any errors handlers attached with c.Error before the panic.
// If the handler already started writing, the response is only aborted.
//
// Usage:
//
//	router.Use(middleware.Recovery(logger))
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := GetRequestID(c)

			attrs := []any{
				"request_id", requestID,
				"panic", fmt.Sprint(rec),
				"method", c.Request.Method,
				"route", routeOf(c),
				"stack", string(debug.Stack()),
			}
			if len(c.Errors) > 0 {
				attrs = append(attrs, "handler_errors", c.Errors.Errors())
			}
			log.Error("panic recovered", attrs...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
				Error: response.ErrorDetail{
					Code:      "INTERNAL_ERROR",
					Message:   "An unexpected error occurred",
					RequestID: requestID,
				},
			})
		}()

		c.Next()
	}
}

// routeOf prefers the route template so ids do not end up in log keys.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}
