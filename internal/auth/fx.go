package auth

import (
	"github.com/mmml-co/mmml-backend/internal/auth/oauth"
	"github.com/mmml-co/mmml-backend/internal/auth/repository"
	"github.com/mmml-co/mmml-backend/internal/auth/service"
	"github.com/mmml-co/mmml-backend/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(session.NewManager),
	fx.Provide(oauth.NewService),
)
