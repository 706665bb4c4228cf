package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

var internalErrorBody = []byte(`{"error":"internal server error"}`)

// RecoveryLogger отвечает 500 на панику в обработчике. Заголовки,
// выставленные до паники (например CORS), сохраняются.
func RecoveryLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.ErrorContext(c.Request.Context(), "panic recovered",
				"panic", fmt.Sprint(r),
				"request_id", c.GetString(RequestIDKey),
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			if !c.Writer.Written() {
				c.Data(http.StatusInternalServerError, "application/json", internalErrorBody)
			}
			c.Abort()
		}()
		c.Next()
	}
}
