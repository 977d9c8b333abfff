package monitor

import (
	"context"

	alertdomain "github.com/shopcraft/storefront/internal/alert/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("monitor",
	fx.Provide(
		func(svc alertdomain.Service) Sweeper { return svc },
		New,
	),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, m *Monitor) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			m.Stop()
			return nil
		},
	})
}
