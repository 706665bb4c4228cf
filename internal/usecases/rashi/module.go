package rashi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/kafka"
	"github.com/admin/astro/rashi-api/internal/ports/service"
	"github.com/google/uuid"
)

// isoUTC формат input.dateTime в ответе
const isoUTC = "2006-01-02T15:04:05.000Z"

// Service реализует IRashiService
type Service struct {
	registry   service.ICapabilityRegistry
	validator  *Validator
	normalizer *Normalizer
	calculator *Calculator
	events     kafka.IKafkaProducer
	log        *slog.Logger
}

// New events может быть nil, тогда события не публикуются
func New(
	registry service.ICapabilityRegistry,
	validator *Validator,
	normalizer *Normalizer,
	calculator *Calculator,
	events kafka.IKafkaProducer,
	log *slog.Logger,
) *Service {
	return &Service{
		registry:   registry,
		validator:  validator,
		normalizer: normalizer,
		calculator: calculator,
		events:     events,
		log:        log,
	}
}

func (s *Service) EnsureEngine() error {
	_, err := s.registry.Engine()
	return err
}

func (s *Service) Calculate(ctx context.Context, requestID uuid.UUID, raw domain.RawCalculationRequest) (*domain.RashiResponse, error) {
	eng, err := s.registry.Engine()
	if err != nil {
		return nil, err
	}

	input, err := s.validator.Validate(raw)
	if err != nil {
		s.log.Debug("rashi request rejected",
			"request_id", requestID,
			"reason", err.Error(),
		)
		return nil, err
	}

	details := s.normalizer.Normalize(input)

	result, err := s.calculator.Calculate(ctx, eng, details)
	if err != nil {
		var engErr *domain.EngineFailureError
		if errors.As(err, &engErr) {
			s.log.Error("error calculating rashi",
				"request_id", requestID,
				"engine", eng.Name(),
				"error", engErr.Detail(),
			)
		}
		return nil, err
	}

	resp := &domain.RashiResponse{
		Success: true,
		Input: domain.CalculationInput{
			DateTime: input.Instant().UTC().Format(isoUTC),
			Location: domain.Location{
				Lat: details.Lat,
				Lng: details.Lng,
			},
			Timezone: details.Timezone,
		},
		Moon:       result.Moon,
		AllPlanets: result.AllPlanets,
	}

	s.publish(ctx, requestID, resp)

	return resp, nil
}

// publish событие отправляется по возможности, ошибка не влияет на ответ
func (s *Service) publish(ctx context.Context, requestID uuid.UUID, resp *domain.RashiResponse) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.log.Warn("failed to marshal calculation event", "request_id", requestID, "error", err)
		return
	}

	if err := s.events.PublishCalculation(ctx, requestID, payload); err != nil {
		s.log.Warn("failed to publish calculation event",
			"request_id", requestID,
			"error", err,
		)
	}
}
