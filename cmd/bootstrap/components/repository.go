package components

import (
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
			fx.As(new(queries.CouponReadStore)),
		),
		fx.Annotate(
			repository.NewCatalogRepository,
			fx.As(new(queries.CatalogReadStore)),
		),
	),
)
