package controllers_fx

import (
	"go.uber.org/fx"
	"lucidly/internal/api/controllers"
	"lucidly/internal/services"
)

var Module = fx.Options(
	fx.Provide(services.NewHealthService),
	fx.Provide(controllers.NewHealthController))
