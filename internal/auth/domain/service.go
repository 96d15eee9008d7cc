package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*Account, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// LoginWithIdentity starts or resumes a session for an OAuth identity,
	// creating the account on first login when sign up is allowed.
	LoginWithIdentity(ctx context.Context, req IdentityLoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	Account(ctx context.Context, accountID snowflake.ID) (*Account, error)
	ChangePassword(ctx context.Context, accountID snowflake.ID, newPassword string) error
}

type SignupRequest struct {
	Email       string
	Password    string
	DisplayName string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type IdentityLoginRequest struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	AllowSignUp bool
	UserAgent   string
	IPAddress   string
}

type LoginResult struct {
	Session   *SessionView
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
