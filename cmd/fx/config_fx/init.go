package config_fx

import (
	"go.uber.org/fx"
	"lucidly/internal/config"
)

var Module = fx.Provide(
	config.LoadConfig,
	fx.Annotate(provideCORSOrigins, fx.ResultTags(`name:"cors_origins"`)),
)

func provideCORSOrigins(cfg *config.Config) []string {
	return cfg.CORSOrigins
}
