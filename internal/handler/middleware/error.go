package middleware

import (
	"log/slog"
	"net/http"

	"reservation-engine/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public error a handler attached without
// writing a body, and turns private errors into a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			err := c.Errors[i]
			if !err.IsType(gin.ErrorTypePublic) {
				continue
			}
			if resp, ok := err.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK && len(c.Errors) == 0 {
			c.Writer.WriteHeaderNow()
			return
		}
		// nothing rendered: either a private error or a handler that forgot to respond
		if len(c.Errors) > 0 {
			slog.ErrorContext(c.Request.Context(), "unhandled request error",
				"path", c.FullPath(),
				"error", c.Errors.Last().Error())
		}
		resp := httperr.Internal()
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				attrs := []any{"panic", rec, "path", c.Request.URL.Path}
				if claims, ok := GetSession(c); ok {
					attrs = append(attrs, "session_id", claims.SessionID)
				}
				slog.ErrorContext(c.Request.Context(), "recovered from panic", attrs...)

				resp := httperr.Internal()
				c.AbortWithStatusJSON(resp.Status, resp)
			}
		}()
		c.Next()
	}
}
