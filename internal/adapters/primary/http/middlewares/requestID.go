package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID берёт UUID из X-Request-ID или генерирует новый
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(RequestIDHeader))
		if err != nil || id == uuid.Nil {
			id = uuid.New()
		}

		c.Set(RequestIDKey, id.String())
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// GetRequestID идентификатор текущего запроса
func GetRequestID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(RequestIDKey))
	if err != nil {
		return uuid.New()
	}
	return id
}
