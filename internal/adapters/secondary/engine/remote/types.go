package remote

import (
	"encoding/json"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// PositionsRequest тело запроса позиций, совпадает с нормализованными данными рождения
type PositionsRequest struct {
	BirthDetails domain.NormalizedBirthDetails `json:"birthDetails"`
}

// PositionsResponse ответ API, позиции планет по символу в поле data
type PositionsResponse struct {
	Status  string                     `json:"status,omitempty"`
	Message string                     `json:"message,omitempty"`
	Data    map[string]json.RawMessage `json:"data,omitempty"`
}

// ErrorResponse тело ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
