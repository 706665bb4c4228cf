package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/cache"
	"github.com/admin/astro/rashi-api/internal/ports/geocoder"
	"github.com/admin/astro/rashi-api/internal/ports/service"
)

// Service поиск мест с кэшированием ответов провайдера
type Service struct {
	gate     service.IGeocoderGate
	provider geocoder.IProvider
	cache    cache.Cache // может быть nil
	ttl      time.Duration
	log      *slog.Logger
}

func New(gate service.IGeocoderGate, provider geocoder.IProvider, c cache.Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		gate:     gate,
		provider: provider,
		cache:    c,
		ttl:      ttl,
		log:      log,
	}
}

// Candidates до limit кандидатов; limit вне (0, 10] приводится к 10
func (s *Service) Candidates(ctx context.Context, query domain.GeocodeQuery, limit int) ([]domain.Place, error) {
	if limit <= 0 || limit > domain.MaxGeocodeCandidates {
		limit = domain.MaxGeocodeCandidates
	}

	places, err := s.lookup(ctx, query, domain.MaxGeocodeCandidates)
	if err != nil {
		return nil, err
	}
	if len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

// BestMatch первое место из ответа провайдера
func (s *Service) BestMatch(ctx context.Context, query domain.GeocodeQuery) (*domain.Place, error) {
	places, err := s.lookup(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	return &places[0], nil
}

func (s *Service) lookup(ctx context.Context, query domain.GeocodeQuery, limit int) ([]domain.Place, error) {
	if err := s.gate.Geocoder(); err != nil {
		return nil, err
	}
	if query.IsEmpty() {
		return nil, domain.NewClientInputError(domain.MsgMissingLocation)
	}

	key := query.CacheKey()
	if places, ok := s.fromCache(ctx, key, limit); ok {
		return places, nil
	}

	places, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		s.log.Error("geocoder search failed", "error", err, "key", key)
		return nil, &domain.UpstreamProviderError{Err: err}
	}
	if len(places) == 0 {
		return nil, &domain.UpstreamProviderError{NotFound: true}
	}

	s.toCache(ctx, key, limit, places)
	return places, nil
}

// fromCache запись годится, если запрашивалось не меньше limit мест
func (s *Service) fromCache(ctx context.Context, key string, limit int) ([]domain.Place, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.log.Warn("geocode cache read failed", "error", err, "key", key)
		}
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || len(entry.Places) == 0 {
		s.log.Warn("geocode cache entry is corrupted", "key", key)
		return nil, false
	}
	if entry.Requested < limit {
		return nil, false
	}

	if len(entry.Places) > limit {
		entry.Places = entry.Places[:limit]
	}
	return entry.Places, true
}

func (s *Service) toCache(ctx context.Context, key string, requested int, places []domain.Place) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(cacheEntry{Requested: requested, Places: places})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		s.log.Warn("geocode cache write failed", "error", err, "key", key)
	}
}

type cacheEntry struct {
	Requested int            `json:"requested"`
	Places    []domain.Place `json:"places"`
}
