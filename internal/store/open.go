package store

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

// Open builds the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Store.Backend {
	case "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(afero.NewOsFs(), cfg.Store.Dir), nil
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres store ready")
		return NewPostgres(pool), nil
	case "redis":
		client, err := DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("redis store ready", zap.String("addr", cfg.Redis.Addr))
		return NewRedis(client), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
