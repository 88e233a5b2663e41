package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"northwind/internal/domain"
	"northwind/internal/storage/memory"
	"northwind/internal/storage/postgres"
)

// storageHandle связывает репозиторий с функциями проверки и остановки
// конкретного хранилища.
type storageHandle struct {
	repo  domain.OrderRepository
	ping  func() error
	close func() error
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageHandle, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory order storage")
		return &storageHandle{
			repo:  memory.NewOrderRepository(),
			ping:  func() error { return nil },
			close: func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		logger.Info("using postgres order storage")
		return &storageHandle{
			repo:  postgres.NewOrderRepository(store),
			ping:  func() error { return store.Ping(context.Background()) },
			close: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
