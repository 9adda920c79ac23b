// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ratelimit throttles vote, write and webhook endpoints.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
)

// EndpointType represents a class of endpoints sharing one limit
type EndpointType int

const (
	EndpointVote EndpointType = iota
	EndpointWrite
	EndpointWebhook
)

func (e EndpointType) String() string {
	switch e {
	case EndpointVote:
		return "vote"
	case EndpointWrite:
		return "write"
	case EndpointWebhook:
		return "webhook"
	default:
		return "unknown"
	}
}

// Config holds the configuration for rate limiting middleware
type Config struct {
	EndpointType EndpointType

	Max      int
	Duration time.Duration

	// Next defines a function to skip this middleware when returned true
	Next func(c *fiber.Ctx) bool

	// KeyGenerator defaults to the authenticated user id, or the client IP for anonymous calls.
	KeyGenerator func(c *fiber.Ctx) string

	// LimitReached defines the response when rate limit is exceeded
	LimitReached func(c *fiber.Ctx) error
}

func configDefault(config Config) Config {
	if config.Max <= 0 {
		config.Max = 20
	}
	if config.Duration <= 0 {
		config.Duration = time.Minute
	}

	if config.KeyGenerator == nil {
		endpoint := config.EndpointType.String()
		config.KeyGenerator = func(c *fiber.Ctx) string {
			if user, ok := c.Locals(types.UserCtxName).(types.UserContext); ok {
				return endpoint + ":user:" + user.UserID.String()
			}
			return endpoint + ":ip:" + c.IP()
		}
	}

	if config.LimitReached == nil {
		endpoint := config.EndpointType.String()
		retryAfter := int(config.Duration.Seconds())
		config.LimitReached = func(c *fiber.Ctx) error {
			log.Warn("[RateLimit] Rate limit exceeded for %s from IP: %s", endpoint, c.IP())

			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code":       "RATE_LIMIT_EXCEEDED",
				"message":    fmt.Sprintf("Too many %s requests. Please try again later.", endpoint),
				"retryAfter": retryAfter,
			})
		}
	}

	return config
}

// New creates a new rate limiting middleware handler
func New(config Config) fiber.Handler {
	cfg := configDefault(config)

	return limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Duration,
		KeyGenerator: cfg.KeyGenerator,
		LimitReached: cfg.LimitReached,
		Next:         cfg.Next,
	})
}

// FromConfig builds the limiter for an endpoint class. A disabled class yields a pass-through handler.
func FromConfig(endpoint EndpointType, rc platformconfig.RateLimitConfig) fiber.Handler {
	if !rc.Enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return New(Config{
		EndpointType: endpoint,
		Max:          rc.Max,
		Duration:     rc.Duration,
	})
}

// Limiters bundles one handler per endpoint class.
type Limiters struct {
	Vote    fiber.Handler
	Write   fiber.Handler
	Webhook fiber.Handler
}

// NewLimiters builds every endpoint class from the platform configuration.
func NewLimiters(cfg platformconfig.RateLimitsConfig) Limiters {
	return Limiters{
		Vote:    FromConfig(EndpointVote, cfg.Vote),
		Write:   FromConfig(EndpointWrite, cfg.Write),
		Webhook: FromConfig(EndpointWebhook, cfg.Webhook),
	}
}
