package payment

import (
	"github.com/mmml-co/mmml-backend/internal/payment/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
)
