package jobs

import (
	"context"
	"log/slog"
	"time"
)

const cachePurgeName = "geocode-cache-purge"

// Purger кэш, умеющий удалять истёкшие ключи
type Purger interface {
	PurgeExpired() int
}

// CachePurge джоба очистки истёкших ответов геокодера в in-memory кэше
type CachePurge struct {
	every
	cache Purger
	log   *slog.Logger
}

func NewCachePurge(cache Purger, interval time.Duration, log *slog.Logger) *CachePurge {
	return &CachePurge{
		every: every(interval),
		cache: cache,
		log:   log,
	}
}

func (j *CachePurge) Name() string {
	return cachePurgeName
}

func (j *CachePurge) Run(_ context.Context) error {
	if purged := j.cache.PurgeExpired(); purged > 0 {
		j.log.Debug("expired cache entries purged", "count", purged)
	}
	return nil
}
