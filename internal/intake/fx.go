package intake

import (
	"github.com/mmml-co/mmml-backend/internal/intake/repository"
	"github.com/mmml-co/mmml-backend/internal/intake/service"
	"go.uber.org/fx"
)

var Module = fx.Module("intake",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
