package registration

import (
	"github.com/mmml-co/mmml-backend/internal/registration/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("registration",
	fx.Provide(repository.Provide),
)
