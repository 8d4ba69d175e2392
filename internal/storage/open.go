package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront/internal/cache"
	"github.com/GTDGit/storefront/internal/config"
	"github.com/GTDGit/storefront/internal/database"
)

// Open builds the driver selected by cfg.Storage.Driver.
func Open(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return NewMemory(), nil

	case config.StorageFile:
		return NewFile(cfg.Storage.Dir)

	case config.StorageRedis:
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Redis.Host).Msg("redis storage connected")
		return NewRedis(client), nil

	case config.StoragePostgres:
		db, err := database.Connect(context.Background(), &cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db.DB); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("host", cfg.DB.Host).Msg("postgres storage connected")
		return NewPostgres(db), nil

	case config.StorageNone:
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
