package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AuthCookieSecure bool

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Shared secret used to verify inbound payment gateway webhooks.
	WebhookSecret string

	// When set, a local admin account is created on first start.
	AdminInitialPassword string

	Email     EmailConfig
	OAuth     OAuthConfig
	RateLimit RateLimitConfig
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string
}

// RateLimitConfig throttles public form submissions. Leaving RedisAddr empty
// disables the limiter.
type RateLimitConfig struct {
	RedisAddr       string
	RedisPassword   string
	SubmissionRate  float64
	SubmissionBurst int
}

type OAuthConfig struct {
	ProviderName string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       string
	RedirectURL  string
	AllowSignUp  bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:              getenv("APP_SERVICE", "mmml-backend"),
		AppVersion:           getenv("APP_VERSION", "0.1.0"),
		Environment:          environment,
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure:     authCookieSecure,
		DBType:               getenv("DATABASE_TYPE", "mysql"),
		DBHost:               getenv("DATABASE_HOST", "localhost"),
		DBPort:               getenv("DATABASE_PORT", "3306"),
		DBName:               getenv("DATABASE_NAME", "mmml"),
		DBUser:               getenv("DATABASE_USER", "mmml"),
		DBPassword:           getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:            getenv("DATABASE_SSLMODE", "disable"),
		WebhookSecret:        strings.TrimSpace(getenv("RAZORPAY_WEBHOOK_SECRET", "")),
		AdminInitialPassword: getenv("ADMIN_INITIAL_PASSWORD", ""),
		Email: EmailConfig{
			SMTPHost:     getenv("MAIL_SERVER", "smtp.gmail.com"),
			SMTPPort:     getenvInt("MAIL_PORT", 587),
			SMTPUsername: getenv("MAIL_USERNAME", ""),
			SMTPPassword: getenv("MAIL_PASSWORD", ""),
			SMTPFrom:     getenv("MAIL_FROM", "noreply@mmml.co.in"),
			AdminEmail:   getenv("ADMIN_EMAIL", "admin@mmml.co.in"),
		},
		OAuth: OAuthConfig{
			ProviderName: getenv("OAUTH_PROVIDER", "google"),
			ClientID:     strings.TrimSpace(getenv("OAUTH_CLIENT_ID", "")),
			ClientSecret: strings.TrimSpace(getenv("OAUTH_CLIENT_SECRET", "")),
			AuthURL:      getenv("OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
			TokenURL:     getenv("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			UserInfoURL:  getenv("OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),
			Scopes:       getenv("OAUTH_SCOPES", "openid email profile"),
			RedirectURL:  getenv("OAUTH_REDIRECT_URL", ""),
			AllowSignUp:  getenvBool("OAUTH_ALLOW_SIGNUP", true),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:       getenv("REDIS_ADDR", ""),
			RedisPassword:   getenv("REDIS_PASSWORD", ""),
			SubmissionRate:  getenvFloat("SUBMISSION_RATE_LIMIT", 1),
			SubmissionBurst: getenvInt("SUBMISSION_RATE_BURST", 5),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
