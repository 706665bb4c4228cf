package geocoder

import (
	"context"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// IProvider внешний сервис геокодирования
type IProvider interface {
	// Search возвращает до limit мест в порядке релевантности
	Search(ctx context.Context, query domain.GeocodeQuery, limit int) ([]domain.Place, error)
}
