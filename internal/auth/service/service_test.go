package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/mmml-co/mmml-backend/internal/auth/domain"
	"github.com/mmml-co/mmml-backend/internal/auth/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int64

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:authsvc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo, sessionRepo := repository.New(db)
	return New(zap.NewNop(), repo, sessionRepo, node)
}

func TestSignupLoginLogoutRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	account, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "Jane@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Email)
	assert.Equal(t, "jane", account.DisplayName)
	require.NotNil(t, account.PasswordHash)
	assert.NotContains(t, *account.PasswordHash, "correct horse")

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.AccountID)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong password here",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "unknown account must look like a bad password")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, domain.SignupRequest{
		Email:    "JANE@example.com",
		Password: "another password",
	})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Signup(context.Background(), domain.SignupRequest{
		Email:    "jane@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginWithIdentityCreatesAccountOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := domain.IdentityLoginRequest{
		Provider:    "Google",
		ExternalID:  "sub-12345",
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
		AllowSignUp: true,
	}

	first, err := svc.LoginWithIdentity(ctx, req)
	require.NoError(t, err)

	second, err := svc.LoginWithIdentity(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Session.Metadata["account_id"], second.Session.Metadata["account_id"])
	assert.Equal(t, "google", second.Session.Metadata["provider"])
}

func TestLoginWithIdentityHonorsSignUpGate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LoginWithIdentity(context.Background(), domain.IdentityLoginRequest{
		Provider:    "google",
		ExternalID:  "sub-99999",
		Email:       "new@example.com",
		AllowSignUp: false,
	})
	assert.ErrorIs(t, err, domain.ErrSignUpDisabled)
}

func TestChangePasswordInvalidatesOldOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	account, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, account.ID, "an entirely new one"))

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "an entirely new one",
	})
	assert.NoError(t, err)
}
