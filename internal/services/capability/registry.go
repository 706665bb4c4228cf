package capability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/engine"
)

// Acquirers функции получения опциональных модулей.
// Любая из них может быть nil - модуль считается не сконфигурированным.
type Acquirers struct {
	// EngineName имя модуля движка для логов и ответа 503
	EngineName string
	Engine     func(ctx context.Context) (engine.Engine, error)
	// Ephemeris готовит каталог эфемерид и возвращает абсолютный путь.
	// Путь возвращается и вместе с ошибкой, если каталог удалось определить.
	Ephemeris func(ctx context.Context) (string, error)
	Geocoder  func(ctx context.Context) error
}

// Registry неизменяемый после Load снимок доступности модулей
type Registry struct {
	status     domain.CapabilityStatus
	engine     engine.Engine
	engineName string
}

var errNotConfigured = errors.New("not configured")

// Load пытается получить каждый модуль один раз. Ошибки не возвращаются:
// недоступность модуля фиксируется в статусе.
func Load(ctx context.Context, log *slog.Logger, acq Acquirers) *Registry {
	r := &Registry{engineName: acq.EngineName}
	if r.engineName == "" {
		r.engineName = "engine"
	}

	ephePath, epheErr := acquire(ctx, acq.Ephemeris)
	r.status.EphemerisDataAvailable = epheErr == nil
	report(log, "ephemeris", epheErr, "path", ephePath)

	eng, engErr := acquire(ctx, acq.Engine)
	if engErr == nil && eng == nil {
		engErr = errNotConfigured
	}
	if engErr == nil {
		r.engine = eng
		r.engineName = eng.Name()
	}
	r.status.EngineAvailable = engErr == nil
	report(log, r.engineName, engErr)

	// движок получает путь даже при пустом каталоге, иначе он ищет файлы в своём дефолтном
	if r.status.EngineAvailable && ephePath != "" {
		configureEphemeris(log, r.engine, ephePath)
	}

	_, geoErr := acquire(ctx, func(ctx context.Context) (struct{}, error) {
		if acq.Geocoder == nil {
			return struct{}{}, errNotConfigured
		}
		return struct{}{}, acq.Geocoder(ctx)
	})
	r.status.GeocoderAvailable = geoErr == nil
	report(log, "geocoder", geoErr)

	return r
}

// New собирает реестр из готовых значений
func New(status domain.CapabilityStatus, eng engine.Engine, engineName string) *Registry {
	if !status.EngineAvailable {
		eng = nil
	}
	if eng != nil {
		engineName = eng.Name()
	}
	return &Registry{status: status, engine: eng, engineName: engineName}
}

// Status копия снимка
func (r *Registry) Status() domain.CapabilityStatus {
	return r.status
}

// Engine движок или CapabilityUnavailableError с именем модуля
func (r *Registry) Engine() (engine.Engine, error) {
	if !r.status.EngineAvailable || r.engine == nil {
		return nil, &domain.CapabilityUnavailableError{Module: r.engineName}
	}
	return r.engine, nil
}

// Geocoder nil или CapabilityUnavailableError
func (r *Registry) Geocoder() error {
	if !r.status.GeocoderAvailable {
		return &domain.CapabilityUnavailableError{Module: "geocoder"}
	}
	return nil
}

// acquire вызывает fn, паника считается ошибкой получения модуля
func acquire[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (v T, err error) {
	if fn == nil {
		return v, errNotConfigured
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while loading module: %v", rec)
		}
	}()
	return fn(ctx)
}

func configureEphemeris(log *slog.Logger, eng engine.Engine, path string) {
	cfg, ok := eng.(engine.EphemerisConfigurer)
	if !ok {
		log.Warn("engine has no ephemeris path setter", "engine", eng.Name())
		return
	}

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic in ephemeris setter: %v", rec)
			}
		}()
		return cfg.SetEphemerisPath(path)
	}()
	if err != nil {
		log.Warn("ephemeris path setup failed", "engine", eng.Name(), "path", path, "error", err)
		return
	}
	log.Info("ephemeris path set", "engine", eng.Name(), "path", path)
}

func report(log *slog.Logger, module string, err error, attrs ...any) {
	if err != nil {
		log.Warn("module not available", append([]any{"module", module, "reason", err.Error()}, attrs...)...)
		return
	}
	log.Info("module loaded", append([]any{"module", module}, attrs...)...)
}
