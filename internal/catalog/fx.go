package catalog

import (
	"github.com/shopcraft/storefront/internal/catalog/repository"
	"github.com/shopcraft/storefront/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
