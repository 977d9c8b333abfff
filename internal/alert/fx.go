package alert

import (
	"github.com/shopcraft/storefront/internal/alert/repository"
	"github.com/shopcraft/storefront/internal/alert/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
