package alerter

import (
	"context"
	"fmt"
	"strings"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/service"
)

// Sender отправка текста алерта
type Sender interface {
	SendAlert(ctx context.Context, message string) error
}

// Service реализует IAlerterService для отправки алертов
type Service struct {
	client Sender
}

// New создаёт новый сервис для отправки алертов
func New(client Sender) service.IAlerterService {
	return &Service{
		client: client,
	}
}

// SendAlert отправляет алерт
func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	return s.client.SendAlert(ctx, message)
}

// ReportStartup отправляет алерт только если какой-то модуль не загрузился
func (s *Service) ReportStartup(ctx context.Context, appName string, status domain.CapabilityStatus) error {
	missing := status.Missing()
	if len(missing) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ %s started in degraded mode\n", appName)
	for _, module := range missing {
		fmt.Fprintf(&b, "• %s module not available\n", module)
	}
	if !status.EngineAvailable {
		b.WriteString("POST /api/rashi will answer 503")
	}

	return s.SendAlert(ctx, strings.TrimRight(b.String(), "\n"))
}
