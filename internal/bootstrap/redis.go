package bootstrap

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	infraredis "github.com/jonesrussell/cityvoice/infrastructure/redis"
	"github.com/jonesrussell/cityvoice/internal/config"
)

// SetupRedis connects to Redis when enabled. It returns nil when Redis is
// disabled or unreachable; the cache and event stream are then skipped.
func SetupRedis(ctx context.Context, cfg *config.Config, log infralogger.Logger) *goredis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client, err := infraredis.NewClient(ctx, cfg.Redis.Config)
	if err != nil {
		log.Warn("Redis not available, cache and events disabled", infralogger.Error(err))
		return nil
	}

	log.Info("Redis connection established", infralogger.String("redis_address", cfg.Redis.Address))
	return client
}
