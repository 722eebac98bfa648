package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"lucidly/internal/config"
	mem "lucidly/pkg/memcache"
)

const (
	limiterIdleTTL = 10 * time.Minute
	sweepInterval  = time.Minute
)

var Module = fx.Provide(provideLimiterStore)

// provideLimiterStore also starts the janitor that forgets idle buckets.
func provideLimiterStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) mem.LimiterStore {
	store := mem.NewLimiters(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterIdleTTL)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("swept idle rate limiters", zap.Int("removed", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
	return store
}
