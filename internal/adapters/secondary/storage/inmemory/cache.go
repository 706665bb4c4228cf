package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/admin/astro/rashi-api/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache in-memory реализация cache.Cache с TTL, используется без Redis
type Cache struct {
	mu      sync.RWMutex
	items   map[string]entry
	maxSize int
	now     func() time.Time
}

// NewCache создаёт кэш, maxSize <= 0 снимает ограничение на число ключей
func NewCache(maxSize int) *Cache {
	return &Cache{
		items:   make(map[string]entry),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get получает значение по ключу
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", cache.ErrNotFound, key)
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.expired(c.now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return "", fmt.Errorf("%w: %s", cache.ErrNotFound, key)
	}
	return e.value, nil
}

// Set устанавливает значение, ttl <= 0 означает хранение без срока
func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	now := c.now()
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evict(now)
	}
	c.items[key] = e
	return nil
}

// evict удаляет истёкшие ключи, а если места всё ещё нет, то ключ с ближайшим сроком
func (c *Cache) evict(now time.Time) {
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
		}
	}
	if len(c.items) < c.maxSize {
		return
	}

	var (
		victim   string
		earliest time.Time
		picked   bool
	)
	for k, e := range c.items {
		switch {
		case !picked:
			victim, earliest, picked = k, e.expiresAt, true
		case e.expiresAt.IsZero():
		case earliest.IsZero() || e.expiresAt.Before(earliest):
			victim, earliest = k, e.expiresAt
		}
	}
	delete(c.items, victim)
}

// PurgeExpired удаляет все истёкшие ключи и возвращает их число
func (c *Cache) PurgeExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	purged := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			purged++
		}
	}
	return purged
}

// Delete удаляет значение по ключу
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Exists проверяет существование неистёкшего ключа
func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	return ok && !e.expired(c.now()), nil
}

// Close очищает кэш
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
	return nil
}
