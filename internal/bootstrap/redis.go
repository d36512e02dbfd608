package bootstrap

import (
	infralogger "github.com/jonesrussell/pagestats/infrastructure/logger"
	infraredis "github.com/jonesrussell/pagestats/infrastructure/redis"
	"github.com/jonesrussell/pagestats/internal/config"
	"github.com/jonesrussell/pagestats/internal/events"
)

// SetupEventPublisher connects to Redis when events are enabled. It returns
// nil when they are disabled or Redis cannot be reached; the service runs
// without events in both cases.
func SetupEventPublisher(cfg *config.Config, log infralogger.Logger) *events.Publisher {
	if !cfg.Redis.Enabled {
		log.Info("Page events disabled")
		return nil
	}

	client, err := infraredis.NewClient(infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, page events disabled",
			infralogger.String("address", cfg.Redis.Address),
			infralogger.Error(err),
		)
		return nil
	}

	log.Info("Page events enabled",
		infralogger.String("address", cfg.Redis.Address),
		infralogger.String("stream", cfg.Redis.Stream),
	)
	return events.NewPublisher(client, cfg.Redis.Stream, log)
}
