// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dualauth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	authhmac "github.com/qolzam/devflow/internal/middleware/authhmac"
	authjwt "github.com/qolzam/devflow/internal/middleware/authjwt"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
)

// Config holds the configuration needed for dual authentication middleware
type Config struct {
	PayloadSecret string // HMAC secret for S2S authentication
	PublicKey     string // ECDSA public key for JWT validation
	Now           func() time.Time
}

type authenticator struct {
	jwt    *authjwt.Validator
	secret string
	now    func() time.Time
}

func newAuthenticator(cfg Config) *authenticator {
	validator, err := authjwt.NewValidator(cfg.PublicKey, authjwt.DefaultClaimKey)
	if err != nil {
		panic(err.Error())
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &authenticator{jwt: validator, secret: cfg.PayloadSecret, now: now}
}

// resolve returns (user, true, nil) on success, (zero, false, nil) when the
// request carries no credentials, and an error when credentials are present but invalid.
func (a *authenticator) resolve(c *fiber.Ctx) (types.UserContext, bool, error) {
	if token := authjwt.TokenFromRequest(c); token != "" {
		user, err := a.jwt.Validate(token)
		if err == nil {
			return user, true, nil
		}
		if c.Get(types.HeaderHMACAuthenticate) == "" {
			return types.UserContext{}, false, err
		}
	}

	if c.Get(types.HeaderHMACAuthenticate) != "" {
		user, err := authhmac.Authenticate(c, a.secret, authhmac.DefaultWindow, a.now())
		if err != nil {
			return types.UserContext{}, false, err
		}
		return user, true, nil
	}

	return types.UserContext{}, false, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    "UNAUTHORIZED",
		"message": "Missing or invalid authentication credentials",
	})
}

// CreateDualAuthMiddleware accepts either a user JWT (Authorization: Bearer or
// the access_token cookie) or an HMAC-signed service request, and rejects
// everything else with 401.
func CreateDualAuthMiddleware(cfg Config) fiber.Handler {
	auth := newAuthenticator(cfg)

	return func(c *fiber.Ctx) error {
		user, ok, err := auth.resolve(c)
		if err != nil {
			log.Warn("authentication failed for %s %s: %v", c.Method(), c.Path(), err)
			return unauthorized(c)
		}
		if !ok {
			return unauthorized(c)
		}

		c.Locals(types.UserCtxName, user)
		return c.Next()
	}
}

// Optional attaches the caller when valid credentials are present. Requests
// without credentials, or with credentials that fail validation, proceed anonymously.
func Optional(cfg Config) fiber.Handler {
	auth := newAuthenticator(cfg)

	return func(c *fiber.Ctx) error {
		user, ok, err := auth.resolve(c)
		if err == nil && ok {
			c.Locals(types.UserCtxName, user)
		}
		return c.Next()
	}
}

// UserFromLocals returns the caller set by either middleware.
func UserFromLocals(c *fiber.Ctx) (types.UserContext, bool) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	return user, ok
}
