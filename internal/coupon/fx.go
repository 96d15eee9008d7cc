package coupon

import (
	"github.com/mmml-co/mmml-backend/internal/coupon/repository"
	"github.com/mmml-co/mmml-backend/internal/coupon/service"
	"go.uber.org/fx"
)

var Module = fx.Module("coupon",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
