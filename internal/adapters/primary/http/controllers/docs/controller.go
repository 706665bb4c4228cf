package docsController

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.json
var openAPISpec []byte

//go:embed docs.html
var docsPage []byte

// Controller схема API и страница с интерактивной документацией
type Controller struct{}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/openapi.json", c.schema)
	router.GET("/docs", c.docs)
}

func (c *Controller) schema(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "application/json", openAPISpec)
}

func (c *Controller) docs(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", docsPage)
}
