package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"lucidly/cmd/fx/account_fx"
	"lucidly/cmd/fx/config_fx"
	"lucidly/cmd/fx/controllers_fx"
	"lucidly/cmd/fx/db_fx"
	"lucidly/cmd/fx/dreams_fx"
	"lucidly/cmd/fx/enrichment_fx"
	"lucidly/cmd/fx/logger_fx"
	"lucidly/cmd/fx/memcache_fx"
	"lucidly/internal/api"
	"lucidly/internal/config"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		dreams_fx.Module,
		enrichment_fx.Module,
		controllers_fx.Module,

		fx.Provide(api.NewRouter),
		fx.Invoke(func(cfg *config.Config) { gin.SetMode(cfg.GinMode) }),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
