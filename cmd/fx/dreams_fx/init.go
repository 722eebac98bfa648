package dreams_fx

import (
	"go.uber.org/fx"
	"lucidly/internal/api/controllers"
	"lucidly/internal/services"
)

var Module = fx.Provide(
	services.NewDreamService,
	controllers.NewDreamController)
