package session

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/infrastructure/redis"
)

var Module = fx.Module("session",
	fx.Provide(NewStore),
	fx.Provide(NewAccessor),
)

// NewStore picks Redis when it is configured, memory otherwise
func NewStore(cfg *config.Config, client *redis.RedisClient, logger *zap.Logger) Store {
	if client == nil {
		logger.Info("Using in-memory session store", zap.Duration("ttl", cfg.Session.TTL))
		return NewMemoryStore(cfg.Session.TTL, time.Now)
	}
	logger.Info("Using Redis session store", zap.Duration("ttl", cfg.Session.TTL))
	return NewRedisStore(client, cfg.Session.TTL)
}
