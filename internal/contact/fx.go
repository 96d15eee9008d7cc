package contact

import (
	"github.com/mmml-co/mmml-backend/internal/contact/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("contact",
	fx.Provide(repository.Provide),
)
