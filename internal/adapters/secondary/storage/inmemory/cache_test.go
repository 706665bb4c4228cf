package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/admin/astro/rashi-api/internal/ports/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(maxSize int) (*Cache, *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache(maxSize)
	c.now = clk.now
	return c, clk
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(0)

	require.NoError(t, c.Set(ctx, "geocode:text:nagpur", `{"lat":21.1}`, time.Minute))

	val, err := c.Get(ctx, "geocode:text:nagpur")
	require.NoError(t, err)
	assert.Equal(t, `{"lat":21.1}`, val)

	ok, err := c.Exists(ctx, "geocode:text:nagpur")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(0)

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	require.NoError(t, c.Set(ctx, "forever", "v", 0))

	clk.t = clk.t.Add(2 * time.Second)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrNotFound)
	ok, _ := c.Exists(ctx, "short")
	assert.False(t, ok)

	val, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestCache_EvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(2)

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Hour))
	require.NoError(t, c.Set(ctx, "c", "3", time.Hour))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrNotFound)
	for _, k := range []string{"b", "c"} {
		_, err := c.Get(ctx, k)
		assert.NoError(t, err, k)
	}

	// перезапись существующего ключа не вытесняет другие
	require.NoError(t, c.Set(ctx, "b", "22", time.Hour))
	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestCache_DeleteAndClose(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(0)

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))

	require.NoError(t, c.Delete(ctx, "a"))
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Close())
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestCache_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	c, clk := newTestCache(0)

	require.NoError(t, c.Set(ctx, "short", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "long", "2", time.Hour))
	require.NoError(t, c.Set(ctx, "forever", "3", 0))

	assert.Equal(t, 0, c.PurgeExpired())

	clk.t = clk.t.Add(2 * time.Minute)
	assert.Equal(t, 1, c.PurgeExpired())
	assert.Len(t, c.items, 2)

	clk.t = clk.t.Add(24 * time.Hour)
	assert.Equal(t, 1, c.PurgeExpired())

	val, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "3", val)
}
