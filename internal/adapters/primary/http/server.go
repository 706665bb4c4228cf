package server

import (
	"net"
	"net/http"
	"time"

	"log/slog"

	"github.com/admin/astro/rashi-api/internal/adapters/primary/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Config порт берётся из RASHI_API_APISERVER_PORT, а если его нет, то из PORT.
// Host без тега envconfig, чтобы не подхватить HOST окружения.
type Config struct {
	Host                    string
	Port                    string        `envconfig:"PORT" default:"3000"`
	WriteTimeout            time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ReadTimeout             time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	ReadHeaderTimeout       time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"3s"`
	IdleTimeout             time.Duration `envconfig:"IDLE_TIMEOUT" default:"15s"`
	EnableLoggingMiddleware bool          `envconfig:"ENABLE_LOGGING_MIDDLEWARE" default:"false"`
	// TrustedProxies адреса прокси, которым доверяется X-Forwarded-For; пусто = никому
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type Controller interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter собирает gin.Engine с общими middleware и маршрутами контроллеров
func NewRouter(
	cfg *Config,
	logger *slog.Logger,
	controllers ...Controller,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.ContextWithFallback = true

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, forwarded headers are ignored", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middlewares.RecoveryLogger(logger), middlewares.RequestID())
	if cfg.EnableLoggingMiddleware {
		router.Use(middlewares.RequestLogger(logger))
	}

	// Регистрируем маршруты всех контроллеров
	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}

	return router
}

func NewHTTPServer(
	cfg *Config,
	logger *slog.Logger,
	controllers ...Controller,
) *http.Server {
	server := &http.Server{
		Handler:           NewRouter(cfg, logger, controllers...),
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return server
}
