package healthcheckController

import (
	"log/slog"
	"net/http"

	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/apierror"
	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/service"
	"github.com/gin-gonic/gin"
)

type HealthCheckController struct {
	registry service.ICapabilityRegistry
	log      *slog.Logger
}

func New(registry service.ICapabilityRegistry, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		registry: registry,
		log:      log,
	}
}

type healthResponse struct {
	Status  string                  `json:"status"`
	Modules domain.CapabilityStatus `json:"modules"`
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/", c.root)
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// root проверка живости процесса
func (c *HealthCheckController) root(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}

// health базовая проверка (всегда 200) со снимком модулей
func (c *HealthCheckController) health(ctx *gin.Context) {
	apierror.JSON(ctx, http.StatusOK, healthResponse{
		Status:  "healthy",
		Modules: c.registry.Status(),
	})
}

// ready готовность к расчётам: без движка 503
func (c *HealthCheckController) ready(ctx *gin.Context) {
	if _, err := c.registry.Engine(); err != nil {
		c.log.Debug("engine not ready", "error", err)
		apierror.JSON(ctx, http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	apierror.JSON(ctx, http.StatusOK, gin.H{
		"status": "ready",
	})
}
