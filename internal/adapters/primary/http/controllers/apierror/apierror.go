package apierror

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// ContentType без charset, как в фиксированном наборе заголовков /api
const ContentType = "application/json"

// Body тело ответа об ошибке
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusOf переводит ошибку в HTTP-статус и тело ответа
func StatusOf(err error) (int, Body) {
	switch domain.KindOf(err) {
	case domain.KindClientInput:
		return http.StatusBadRequest, Body{Error: err.Error()}
	case domain.KindCapabilityUnavailable:
		return http.StatusServiceUnavailable, Body{Error: err.Error()}
	case domain.KindUpstreamNotFound:
		return http.StatusNotFound, Body{Error: domain.MsgLocationNotFound}
	case domain.KindUpstreamFailure:
		return http.StatusInternalServerError, Body{Error: domain.MsgGeocodingFailed}
	default:
		var engErr *domain.EngineFailureError
		if errors.As(err, &engErr) {
			return http.StatusInternalServerError, Body{Error: domain.MsgCalculationFailed, Message: engErr.Detail()}
		}
		return http.StatusInternalServerError, Body{Error: domain.MsgCalculationFailed, Message: err.Error()}
	}
}

// Write отвечает ошибкой
func Write(c *gin.Context, err error) {
	status, body := StatusOf(err)
	JSON(c, status, body)
}

// JSON пишет v с Content-Type application/json
func JSON(c *gin.Context, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status, data = http.StatusInternalServerError, []byte(`{"error":"internal server error"}`)
	}
	c.Data(status, ContentType, data)
}
