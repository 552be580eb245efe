package components

import (
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewCouponCommands,
		queries.NewCouponQueries,
	),
)
