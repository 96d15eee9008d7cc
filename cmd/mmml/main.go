package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/mmml-co/mmml-backend/internal/auth"
	"github.com/mmml-co/mmml-backend/internal/config"
	"github.com/mmml-co/mmml-backend/internal/contact"
	"github.com/mmml-co/mmml-backend/internal/coupon"
	"github.com/mmml-co/mmml-backend/internal/intake"
	"github.com/mmml-co/mmml-backend/internal/migration"
	"github.com/mmml-co/mmml-backend/internal/notify"
	obsmetrics "github.com/mmml-co/mmml-backend/internal/observability/metrics"
	"github.com/mmml-co/mmml-backend/internal/payment"
	"github.com/mmml-co/mmml-backend/internal/ratelimit"
	"github.com/mmml-co/mmml-backend/internal/registration"
	"github.com/mmml-co/mmml-backend/internal/seed"
	"github.com/mmml-co/mmml-backend/internal/server"
	"github.com/mmml-co/mmml-backend/internal/webhook"
	"github.com/mmml-co/mmml-backend/pkg/db"
	"github.com/mmml-co/mmml-backend/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		obsmetrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
		ratelimit.Module,

		// Functional domains
		contact.Module,
		registration.Module,
		coupon.Module,
		payment.Module,
		notify.Module,
		webhook.Module,
		intake.Module,
		auth.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
