package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rule is a fixed-window limit: at most Max requests per Window.
type rule struct {
	Max    int
	Window time.Duration
}

var defaultRules = map[string]rule{
	"login":               {Max: 10, Window: 15 * time.Minute},
	"register":            {Max: 5, Window: time.Hour},
	"forgot-password":     {Max: 5, Window: time.Hour},
	"reset-password":      {Max: 10, Window: time.Hour},
	"resend-verification": {Max: 3, Window: time.Hour},
}

// fallback for purposes without an explicit rule
var defaultRule = rule{Max: 30, Window: time.Minute}

// Limiter enforces per-IP fixed-window rate limits backed by Redis.
type Limiter struct {
	client *redis.Client
	rules  map[string]rule
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{
		client: client,
		rules:  defaultRules,
	}
}

// CheckIPRateLimitWithPurpose reports whether the IP has exceeded the limit
// for the given purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	r := l.ruleFor(purpose)

	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}

	return count >= r.Max, nil
}

// RecordIPRequestWithPurpose increments the request counter for the IP.
// The window starts with the first request and expires via TTL.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	r := l.ruleFor(purpose)
	key := ipKey(ip, purpose)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}

func (l *Limiter) ruleFor(purpose string) rule {
	if r, ok := l.rules[purpose]; ok {
		return r
	}
	return defaultRule
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}
