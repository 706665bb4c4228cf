package service

import (
	"context"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// IGeocoderGate проверка доступности геокодера
type IGeocoderGate interface {
	Geocoder() error
}

// IGeocodeService поиск координат по названию места
type IGeocodeService interface {
	// Candidates кандидаты для автодополнения по свободному тексту
	Candidates(ctx context.Context, query domain.GeocodeQuery, limit int) ([]domain.Place, error)
	// BestMatch единственное лучшее совпадение
	BestMatch(ctx context.Context, query domain.GeocodeQuery) (*domain.Place, error)
}
