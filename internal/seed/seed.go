package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/mmml-co/mmml-backend/internal/auth/domain"
	"github.com/mmml-co/mmml-backend/internal/auth/password"
	"github.com/mmml-co/mmml-backend/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module seeds bootstrap data after migrations have run.
var Module = fx.Module("seed",
	fx.Invoke(EnsureAdminAccount),
)

// EnsureAdminAccount creates the initial local admin account so a fresh
// deployment can sign in without manual SQL. It is a no-op when no initial
// password is configured or the account already exists.
func EnsureAdminAccount(db *gorm.DB, cfg config.Config, log *zap.Logger, node *snowflake.Node) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email.AdminEmail))
	if email == "" || cfg.AdminInitialPassword == "" {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.Account
		err := tx.WithContext(ctx).
			Where("provider = ? AND email = ?", "local", email).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.AdminInitialPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		account := authdomain.Account{
			ID:                  node.Generate(),
			Provider:            "local",
			DisplayName:         "Admin",
			Email:               email,
			PasswordHash:        &hashed,
			LastPasswordChanged: &now,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			return err
		}

		log.Named("seed").Info("created initial admin account", zap.String("email", email))
		return nil
	})
}
