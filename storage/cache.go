package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"kanban-api/domain"
)

type reader interface {
	FetchBoards(ctx context.Context) ([]domain.BoardSummary, error)
	FetchBoard(ctx context.Context, id string) (*domain.BoardView, error)
}

// Cache wraps the board read paths with Redis-backed caching. With a nil
// client it degrades to a passthrough, so callers never have to care
// whether Redis is configured.
type Cache struct {
	base  reader
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching reader using the provided Redis client and TTL.
func NewCache(base reader, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base reader is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) FetchBoards(ctx context.Context) ([]domain.BoardSummary, error) {
	if boards, ok := c.loadBoardsFromCache(ctx); ok {
		return boards, nil
	}

	boards, err := c.base.FetchBoards(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, boardsCacheKey(), boards)
	return boards, nil
}

func (c *Cache) FetchBoard(ctx context.Context, id string) (*domain.BoardView, error) {
	if view, ok := c.loadBoardFromCache(ctx, id); ok {
		return view, nil
	}

	view, err := c.base.FetchBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, boardCacheKey(id), view)
	return view, nil
}

// EvictBoard drops the board's cached view along with the board list.
func (c *Cache) EvictBoard(ctx context.Context, id string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, boardCacheKey(id), boardsCacheKey()).Result()
}

// EvictBoards drops the cached board list.
func (c *Cache) EvictBoards(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, boardsCacheKey()).Result()
}

func (c *Cache) loadBoardsFromCache(ctx context.Context) ([]domain.BoardSummary, bool) {
	data, ok := c.load(ctx, boardsCacheKey())
	if !ok {
		return nil, false
	}
	var boards []domain.BoardSummary
	if err := json.Unmarshal(data, &boards); err != nil {
		_ = c.redis.Del(ctx, boardsCacheKey()).Err()
		return nil, false
	}
	return boards, true
}

func (c *Cache) loadBoardFromCache(ctx context.Context, id string) (*domain.BoardView, bool) {
	data, ok := c.load(ctx, boardCacheKey(id))
	if !ok {
		return nil, false
	}
	var view domain.BoardView
	if err := json.Unmarshal(data, &view); err != nil {
		_ = c.redis.Del(ctx, boardCacheKey(id)).Err()
		return nil, false
	}
	return &view, true
}

func (c *Cache) load(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) store(ctx context.Context, key string, value any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func boardsCacheKey() string { return "boards" }

func boardCacheKey(id string) string { return "board:" + id }
