package webhook

import (
	"github.com/mmml-co/mmml-backend/internal/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook",
	fx.Provide(service.NewService),
)
