package service

import (
	"context"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/engine"
	"github.com/google/uuid"
)

// ICapabilityRegistry снимок доступности модулей, неизменный после старта
type ICapabilityRegistry interface {
	Status() domain.CapabilityStatus
	// Engine возвращает движок или CapabilityUnavailableError
	Engine() (engine.Engine, error)
}

// IRashiService расчёт знака Луны
type IRashiService interface {
	// EnsureEngine проверка до чтения тела запроса
	EnsureEngine() error
	Calculate(ctx context.Context, requestID uuid.UUID, raw domain.RawCalculationRequest) (*domain.RashiResponse, error)
}
