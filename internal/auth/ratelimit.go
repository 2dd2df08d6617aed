package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	loginLimitKeyPrefix = "mp:login_attempts:"
	loginLimitMax       = 10
	loginLimitWindow    = 15 * time.Minute
)

// LoginLimiter throttles login attempts per (email, client IP) via Redis.
// Fail-open: if Redis is unavailable, logins proceed unthrottled.
type LoginLimiter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewLoginLimiter creates a Redis-backed login rate limiter.
func NewLoginLimiter(client *redis.Client, logger *zap.Logger) *LoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLimiter{client: client, logger: logger}
}

// Allow records an attempt and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, email, clientIP string) bool {
	if l.client == nil {
		return true
	}
	key := loginLimitKeyPrefix + strings.ToLower(strings.TrimSpace(email)) + ":" + clientIP
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, loginLimitWindow).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	if count > loginLimitMax {
		l.logger.Info("login rate limited",
			zap.String("email", email),
			zap.String("client_ip", clientIP),
			zap.Int64("attempts", count),
		)
		return false
	}
	return true
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, clientIP string) {
	if l.client == nil {
		return
	}
	key := fmt.Sprintf("%s%s:%s", loginLimitKeyPrefix, strings.ToLower(strings.TrimSpace(email)), clientIP)
	_ = l.client.Del(ctx, key).Err()
}
