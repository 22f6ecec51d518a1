package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/linkshrink/internal/config"
	"github.com/vadimbarashkov/linkshrink/internal/database/memory"
	"github.com/vadimbarashkov/linkshrink/internal/database/postgres"
	"github.com/vadimbarashkov/linkshrink/internal/database/sqlite"
	"github.com/vadimbarashkov/linkshrink/internal/service"
	"github.com/vadimbarashkov/linkshrink/pkg/sqldb"

	rediscache "github.com/vadimbarashkov/linkshrink/internal/database/redis"
)

// Storage is an opened link store together with the resources backing it.
type Storage struct {
	Repo    service.LinkRepository
	closers []func() error
}

func (s *Storage) Close() error {
	var firstErr error

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// OpenStorage connects the backend selected by cfg.Storage.Driver, applies
// migrations when they are enabled and wraps the store with the Redis code
// cache when it is enabled.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	const op = "app.OpenStorage"

	s := new(Storage)

	if cfg.Migrations.Auto {
		if err := Migrate(cfg, true); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sqldb.Open(
			ctx,
			sqldb.DriverPgx,
			cfg.Postgres.DSN(),
			sqldb.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			sqldb.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			sqldb.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			sqldb.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		s.Repo = postgres.NewLinkRepository(db)
		s.closers = append(s.closers, db.Close)
	case config.DriverSQLite:
		db, err := sqldb.Open(ctx, sqldb.DriverSQLite, cfg.SQLite.DSN(), sqldb.WithMaxOpenConns(1))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		s.Repo = sqlite.NewLinkRepository(db)
		s.closers = append(s.closers, db.Close)
	case config.DriverMemory:
		s.Repo = memory.NewLinkRepository()
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis is unreachable, code cache will fall through to the store",
				slog.String("op", op),
				slog.String("addr", cfg.Redis.Addr),
				slog.Any("err", err),
			)
		}

		s.Repo = rediscache.NewCodeCache(client, s.Repo, logger,
			rediscache.WithTTL(cfg.Redis.TTL),
			rediscache.WithKeyPrefix(cfg.Redis.KeyPrefix),
		)
		s.closers = append(s.closers, client.Close)
	}

	return s, nil
}

// Migrate applies (up) or reverts (down) the schema of the configured SQL
// backend. The memory backend has no schema.
func Migrate(cfg *config.Config, up bool) error {
	const op = "app.Migrate"

	var databaseURL string

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		databaseURL = cfg.Postgres.DSN()
	case config.DriverSQLite:
		databaseURL = cfg.SQLite.MigrateURL()
	default:
		return nil
	}

	sourceURL := cfg.Migrations.SourceURL(cfg.Storage.Driver)

	var err error
	if up {
		err = sqldb.RunMigrations(sourceURL, databaseURL)
	} else {
		err = sqldb.RollbackMigrations(sourceURL, databaseURL)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
