package sessionstore

import (
	"fmt"

	"github.com/easm/dashboard/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Open builds the store selected by cfg.Session.Store. When the store cannot be
// reached and fallback is enabled, an in-memory store is returned instead.
func Open(cfg *config.Config, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Session.Store {
	case "redis":
		store, err = NewRedisStore(RedisConfig{
			Addr:      cfg.Redis.RedisAddr(),
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Session.KeyPrefix,
		})
	case "sqlite":
		store, err = NewSQLiteStore(SQLiteConfig{
			Path:     cfg.Session.SQLitePath,
			LogLevel: cfg.Log.Level,
			Tracing:  cfg.Telemetry.Enabled,
		}, log)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	if err != nil {
		if !cfg.Session.Fallback {
			return nil, err
		}
		log.Warn("Session store unavailable, falling back to in-memory store",
			zap.String("store", cfg.Session.Store),
			zap.Error(err),
		)
		return NewMemoryStore(), nil
	}

	log.Info("Session store ready", zap.String("store", cfg.Session.Store))
	return store, nil
}
