package middlewares

import "github.com/gin-gonic/gin"

// CORSHeaders фиксированный набор заголовков для /api, одинаковый для успеха и ошибок
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Content-Type":                 "application/json",
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range CORSHeaders {
			c.Header(k, v)
		}
		c.Next()
	}
}

// Preflight ответ на OPTIONS: 200 и пустое тело
func Preflight(c *gin.Context) {
	c.Status(200)
}
