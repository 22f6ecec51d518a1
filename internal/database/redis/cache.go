// Package redis provides a cache of known short codes in front of a link
// store. Codes are never deleted or reassigned, so a cached code is always
// taken; a cache miss falls back to the store.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/linkshrink/internal/models"
)

const (
	defaultKeyPrefix = "link:code:"
	defaultTTL       = 24 * time.Hour
)

type linkRepository interface {
	Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error)
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	Exists(ctx context.Context, shortCode string) (bool, error)
	RecordClick(ctx context.Context, shortCode string) (*models.Link, error)
}

// Option configures a CodeCache.
type Option func(*CodeCache)

// WithTTL sets how long a known code stays cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *CodeCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the prefix prepended to every cache key.
func WithKeyPrefix(prefix string) Option {
	return func(c *CodeCache) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// CodeCache decorates a link repository. Redis failures are logged and
// never fail the wrapped operation.
type CodeCache struct {
	client    redis.Cmdable
	backend   linkRepository
	logger    *slog.Logger
	ttl       time.Duration
	keyPrefix string
}

// NewCodeCache wraps backend with a Redis cache of known short codes.
func NewCodeCache(client redis.Cmdable, backend linkRepository, logger *slog.Logger, opts ...Option) *CodeCache {
	c := &CodeCache{
		client:    client,
		backend:   backend,
		logger:    logger,
		ttl:       defaultTTL,
		keyPrefix: defaultKeyPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *CodeCache) key(shortCode string) string {
	return c.keyPrefix + shortCode
}

func (c *CodeCache) remember(ctx context.Context, shortCode string) {
	const op = "database.redis.CodeCache.remember"

	if err := c.client.Set(ctx, c.key(shortCode), 1, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache short code",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}
}

func (c *CodeCache) Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error) {
	link, err := c.backend.Create(ctx, shortCode, targetURL)
	if err != nil {
		return nil, err
	}

	c.remember(ctx, shortCode)

	return link, nil
}

func (c *CodeCache) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	return c.backend.GetByShortCode(ctx, shortCode)
}

func (c *CodeCache) Exists(ctx context.Context, shortCode string) (bool, error) {
	const op = "database.redis.CodeCache.Exists"

	n, err := c.client.Exists(ctx, c.key(shortCode)).Result()
	if err != nil {
		c.logger.Warn("failed to look up short code in cache",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}
	if err == nil && n > 0 {
		return true, nil
	}

	exists, err := c.backend.Exists(ctx, shortCode)
	if err != nil {
		return false, err
	}

	if exists {
		c.remember(ctx, shortCode)
	}

	return exists, nil
}

func (c *CodeCache) RecordClick(ctx context.Context, shortCode string) (*models.Link, error) {
	return c.backend.RecordClick(ctx, shortCode)
}
