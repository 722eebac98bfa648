package db_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"lucidly/internal/config"
	"lucidly/internal/infra"
	"lucidly/internal/repositories"
	"lucidly/internal/repositories/memrepo"
)

var Module = fx.Provide(
	provideRepositoryManager)

func provideRepositoryManager(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (repositories.Manager, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memrepo.NewStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := infra.OpenPostgres(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgres(db, log)
			return nil
		},
	})
	return repositories.NewGormManager(db), nil
}
