package ratelimit

import (
	"context"
	"strings"

	"github.com/mmml-co/mmml-backend/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keySubmissionIP = "intake:submit:ip:"

// SubmissionLimiter throttles public form submissions per client IP. It is
// nil when no Redis address is configured, and callers treat nil as
// unlimited.
type SubmissionLimiter struct {
	log    *zap.Logger
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSubmissionLimiter(cfg config.Config, log *zap.Logger) *SubmissionLimiter {
	addr := strings.TrimSpace(cfg.RateLimit.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RateLimit.RedisPassword,
	})

	return &SubmissionLimiter{
		log:    log.Named("ratelimit"),
		bucket: NewTokenBucket(client),
		rate:   cfg.RateLimit.SubmissionRate,
		burst:  cfg.RateLimit.SubmissionBurst,
	}
}

// Allow reports whether the client may submit another form. Redis outages
// fail open so a cache hiccup never blocks registrations.
func (l *SubmissionLimiter) Allow(ctx context.Context, clientIP string) *Result {
	if l == nil || clientIP == "" {
		return &Result{Allowed: true}
	}

	res, err := l.bucket.Allow(ctx, keySubmissionIP+clientIP, l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
		return &Result{Allowed: true}
	}
	return res
}
