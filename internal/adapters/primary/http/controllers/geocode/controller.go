package geocodeController

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/apierror"
	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/service"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	GeocodeService service.IGeocodeService
	Log            *slog.Logger
}

func New(geocodeService service.IGeocodeService, log *slog.Logger) *Controller {
	return &Controller{
		GeocodeService: geocodeService,
		Log:            log,
	}
}

type candidatesResponse struct {
	Results []domain.Place `json:"results"`
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", middlewares.CORS())
	{
		api.OPTIONS("/geocode", middlewares.Preflight)
		api.GET("/geocode", c.handleGeocode)
	}
}

// handleGeocode q - кандидаты для автодополнения, city/state/country - лучшее совпадение
func (c *Controller) handleGeocode(ctx *gin.Context) {
	query := domain.GeocodeQuery{
		Text:    ctx.Query("q"),
		City:    ctx.Query("city"),
		State:   ctx.Query("state"),
		Country: ctx.Query("country"),
	}

	if query.IsFreeText() {
		limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
		if err != nil {
			limit = 0
		}

		places, err := c.GeocodeService.Candidates(ctx.Request.Context(), query, limit)
		if err != nil {
			apierror.Write(ctx, err)
			return
		}
		apierror.JSON(ctx, http.StatusOK, candidatesResponse{Results: places})
		return
	}

	place, err := c.GeocodeService.BestMatch(ctx.Request.Context(), query)
	if err != nil {
		apierror.Write(ctx, err)
		return
	}
	apierror.JSON(ctx, http.StatusOK, place)
}
