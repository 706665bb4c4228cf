package service

import (
	"context"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// IAlerterService интерфейс для отправки алертов
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
	// ReportStartup сообщает о недоступных при старте модулях
	ReportStartup(ctx context.Context, appName string, status domain.CapabilityStatus) error
}
