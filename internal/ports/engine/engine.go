package engine

import (
	"context"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// Engine внешний движок расчёта позиций планет
type Engine interface {
	// Name идентификатор модуля, попадает в ответ 503 и в логи
	Name() string
	// Positions позиции планет для нормализованных данных рождения
	Positions(ctx context.Context, details domain.NormalizedBirthDetails) (domain.PlanetPositions, error)
	// Rashi знак для долготы
	Rashi(ctx context.Context, longitude float64) (string, error)
}

// EphemerisConfigurer опциональная точка настройки пути к эфемеридам
type EphemerisConfigurer interface {
	SetEphemerisPath(path string) error
}

// Prober движок, который умеет проверить свою доступность при старте
type Prober interface {
	Probe(ctx context.Context) error
}
