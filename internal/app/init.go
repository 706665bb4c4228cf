package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	server "github.com/admin/astro/rashi-api/internal/adapters/primary/http"
	docsController "github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/docs"
	geocodeController "github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/geocode"
	healthcheckController "github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/healthcheck"
	rashiController "github.com/admin/astro/rashi-api/internal/adapters/primary/http/controllers/rashi"
	alerterAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/alerter"
	enginePlugin "github.com/admin/astro/rashi-api/internal/adapters/secondary/engine/plugin"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/engine/remote"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/ephemeris"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/geocoder/nominatim"
	kafkaAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/kafka"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/storage/inmemory"
	redisAdapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro/rashi-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro/rashi-api/internal/adapters/secondary/timezone"
	"github.com/admin/astro/rashi-api/internal/ports/cache"
	"github.com/admin/astro/rashi-api/internal/ports/engine"
	"github.com/admin/astro/rashi-api/internal/ports/geocoder"
	"github.com/admin/astro/rashi-api/internal/ports/kafka"
	"github.com/admin/astro/rashi-api/internal/ports/service"
	"github.com/admin/astro/rashi-api/internal/ports/storage"
	alerterService "github.com/admin/astro/rashi-api/internal/services/alerter"
	"github.com/admin/astro/rashi-api/internal/services/capability"
	"github.com/admin/astro/rashi-api/internal/services/jobs"
	geocodeUsecase "github.com/admin/astro/rashi-api/internal/usecases/geocode"
	rashiUsecase "github.com/admin/astro/rashi-api/internal/usecases/rashi"
)

const startupAlertTimeout = 10 * time.Second

type Dependencies struct {
	HTTPServer    *http.Server
	Registry      *capability.Registry
	Cache         cache.Cache
	KafkaProducer *kafkaAdapter.Producer
	Scheduler     *jobs.Scheduler
}

// initDependencies инициализирует все зависимости приложения.
// Все опциональные модули загружаются здесь, до запуска HTTP сервера.
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	geocoderClient, geocoderErr := a.initGeocoderClient()
	ephemerisStore := a.initEphemerisStore(ctx)

	registry := capability.Load(ctx, a.Log, capability.Acquirers{
		EngineName: a.engineModuleName(),
		Engine:     a.engineAcquirer(),
		Ephemeris:  ephemerisStore.Acquire,
		Geocoder: func(context.Context) error {
			return geocoderErr
		},
	})

	normalizer, err := a.initNormalizer()
	if err != nil {
		return nil, err
	}

	geocodeCache := a.initCache(ctx)

	producer := a.initKafka()
	var events kafka.IKafkaProducer
	if producer != nil {
		events = producer
	}

	rashiService := rashiUsecase.New(
		registry,
		rashiUsecase.NewValidator(time.Local),
		normalizer,
		rashiUsecase.NewCalculator(a.Cfg.Engine.CalcTimeout),
		events, // может быть nil
		a.Log,
	)

	var provider geocoder.IProvider
	if geocoderClient != nil {
		provider = geocoderClient
	}
	geocodeService := geocodeUsecase.New(registry, provider, geocodeCache, a.Cfg.Geocoder.CacheTTL, a.Log)

	alerts := a.initAlerter()
	if alerts != nil {
		a.reportStartup(ctx, alerts, registry)
	}

	scheduler := a.initScheduler(alerts, registry, ephemerisStore, geocodeCache)

	httpServer := server.NewHTTPServer(a.Cfg.Server, a.Log,
		healthcheckController.New(registry, a.Log),
		docsController.New(),
		rashiController.New(rashiService, a.Log),
		geocodeController.New(geocodeService, a.Log),
	)

	return &Dependencies{
		HTTPServer:    httpServer,
		Registry:      registry,
		Cache:         geocodeCache,
		KafkaProducer: producer,
		Scheduler:     scheduler,
	}, nil
}

func (a *App) engineModuleName() string {
	switch a.Cfg.Engine.Driver {
	case EngineDriverRemote:
		return remote.ModuleName
	default:
		return enginePlugin.ModuleName
	}
}

// engineAcquirer функция загрузки движка для выбранного драйвера
func (a *App) engineAcquirer() func(ctx context.Context) (engine.Engine, error) {
	switch a.Cfg.Engine.Driver {
	case EngineDriverPlugin:
		return func(context.Context) (engine.Engine, error) {
			eng, err := enginePlugin.Open(a.Cfg.Engine.PluginPath)
			if err != nil {
				return nil, err
			}
			return eng, nil
		}
	case EngineDriverRemote:
		return func(ctx context.Context) (engine.Engine, error) {
			client := remote.NewClient(&a.Cfg.Engine.Config, a.Log)
			if err := client.Probe(ctx); err != nil {
				return nil, err
			}
			return client, nil
		}
	default:
		return func(context.Context) (engine.Engine, error) {
			return nil, errors.New("engine disabled by configuration")
		}
	}
}

// initEphemerisStore каталог эфемерид; S3 используется, только если настроен
func (a *App) initEphemerisStore(ctx context.Context) *ephemeris.Store {
	var source storage.IS3Client
	if a.Cfg.S3.Enabled() {
		client, err := a.Cfg.S3.NewClient(ctx)
		if err != nil {
			a.Log.Warn("failed to init s3 client, ephemeris will not be synced", "error", err)
		} else {
			source = s3Adapter.NewClient(client, a.Cfg.S3.Bucket, a.Log)
			a.Log.Info("s3 connected successfully", "bucket", a.Cfg.S3.Bucket)
		}
	}

	return ephemeris.NewStore(a.Cfg.Ephemeris, source, a.Log)
}

func (a *App) initGeocoderClient() (*nominatim.Client, error) {
	client, err := nominatim.NewClient(a.Cfg.Geocoder, a.Log)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// initNormalizer в режиме coordinates без полигонов зон работает как server
func (a *App) initNormalizer() (*rashiUsecase.Normalizer, error) {
	mode, err := rashiUsecase.ParseTimezoneMode(a.Cfg.Timezone.Mode)
	if err != nil {
		return nil, err
	}

	var finder rashiUsecase.ZoneFinder
	if mode == rashiUsecase.TimezoneModeCoordinates {
		f, err := timezone.NewFinder()
		if err != nil {
			a.Log.Warn("timezone finder unavailable, falling back to server timezone", "error", err)
		} else {
			finder = f
		}
	}

	return rashiUsecase.NewNormalizer(mode, time.Local, finder), nil
}

// initCache Redis, если настроен и доступен, иначе in-memory
func (a *App) initCache(ctx context.Context) cache.Cache {
	if a.Cfg.Redis.Enabled() {
		redisClient, err := a.Cfg.Redis.NewConnection(ctx)
		if err != nil {
			a.Log.Warn("failed to init redis cache, using in-memory cache", "error", err)
		} else {
			a.Log.Info("redis cache connected successfully", "key_prefix", a.Cfg.Redis.KeyPrefix)
			return redisAdapter.NewCache(redisClient, a.Cfg.Redis.KeyPrefix)
		}
	}

	return inmemory.NewCache(a.Cfg.Geocoder.CacheSize)
}

func (a *App) initKafka() *kafkaAdapter.Producer {
	if !a.Cfg.Kafka.Enabled() {
		return nil
	}

	producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
	if err != nil {
		a.Log.Warn("failed to create kafka producer, calculation events disabled", "error", err)
		return nil
	}
	return producer
}

func (a *App) initAlerter() service.IAlerterService {
	client := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
	if client == nil {
		return nil
	}
	return alerterService.New(client)
}

// reportStartup алерт о недоступных модулях, ошибка отправки только логируется
func (a *App) reportStartup(ctx context.Context, alerts service.IAlerterService, registry service.ICapabilityRegistry) {
	alertCtx, cancel := context.WithTimeout(ctx, startupAlertTimeout)
	defer cancel()

	if err := alerts.ReportStartup(alertCtx, a.Name, registry.Status()); err != nil {
		a.Log.Warn("failed to send startup alert", "error", err)
	}
}

// initScheduler фоновые джобы: очистка in-memory кэша и докачка эфемерид из S3
func (a *App) initScheduler(
	alerts service.IAlerterService,
	registry service.ICapabilityRegistry,
	store *ephemeris.Store,
	geocodeCache cache.Cache,
) *jobs.Scheduler {
	scheduler := jobs.NewScheduler(a.Log, alerts)

	if purger, ok := geocodeCache.(jobs.Purger); ok && a.Cfg.Jobs.CachePurgeInterval > 0 {
		scheduler.Register(jobs.NewCachePurge(purger, a.Cfg.Jobs.CachePurgeInterval, a.Log))
	}

	if store.CanSync() && registry.Status().EphemerisDataAvailable && a.Cfg.Jobs.EphemerisSyncInterval > 0 {
		scheduler.Register(jobs.NewEphemerisSync(store, a.Cfg.Jobs.EphemerisSyncInterval, a.Log))
	}

	return scheduler
}
