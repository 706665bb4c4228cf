package rashiController

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/apierror"
	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/service"
	"github.com/gin-gonic/gin"
)

// maxBodyBytes ограничение тела запроса расчёта
const maxBodyBytes = 1 << 20

type Controller struct {
	RashiService service.IRashiService
	Log          *slog.Logger
}

func New(rashiService service.IRashiService, log *slog.Logger) *Controller {
	return &Controller{
		RashiService: rashiService,
		Log:          log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", middlewares.CORS())
	{
		api.OPTIONS("/rashi", middlewares.Preflight)
		api.POST("/rashi", c.handleCalculate)
	}
}

func (c *Controller) handleCalculate(ctx *gin.Context) {
	// Без движка тело не читаем
	if err := c.RashiService.EnsureEngine(); err != nil {
		apierror.Write(ctx, err)
		return
	}

	raw, err := decodeBody(ctx)
	if err != nil {
		c.Log.Debug("invalid rashi request body",
			"request_id", ctx.GetString(middlewares.RequestIDKey),
			"error", err,
		)
		apierror.Write(ctx, domain.NewClientInputError(domain.MsgInvalidJSON))
		return
	}

	resp, err := c.RashiService.Calculate(ctx.Request.Context(), middlewares.GetRequestID(ctx), raw)
	if err != nil {
		apierror.Write(ctx, err)
		return
	}

	apierror.JSON(ctx, http.StatusOK, resp)
}

func decodeBody(ctx *gin.Context) (domain.RawCalculationRequest, error) {
	var raw domain.RawCalculationRequest

	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBodyBytes))
	if err != nil {
		return raw, err
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return raw, err
	}
	return raw, nil
}
