// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package authhmac

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/internal/types"
)

// DefaultWindow bounds how far X-Timestamp may drift from the server clock.
const DefaultWindow = 5 * time.Minute

// Config defines the config for middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Realm is reported in the WWW-Authenticate header on rejection.
	//
	// Optional. Default: "Restricted".
	Realm string

	// Unauthorized defines the response body for unauthorized responses.
	//
	// Optional. Default: 401 with a WWW-Authenticate header
	Unauthorized fiber.Handler

	// PayloadSecret is the key to validate HMAC
	PayloadSecret string

	// Window is the accepted clock skew.
	//
	// Optional. Default: 5 minutes
	Window time.Duration

	// UserCtxName is the key to store the user context in Locals
	//
	// Optional. Default: "user"
	UserCtxName string

	// Now is the clock used for the timestamp window. Tests override it.
	Now func() time.Time
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	Realm:       "Restricted",
	Window:      DefaultWindow,
	UserCtxName: types.UserCtxName,
	Now:         time.Now,
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		cfg := ConfigDefault
		return configDefault(cfg)
	}

	cfg := config[0]
	if cfg.Realm == "" {
		cfg.Realm = ConfigDefault.Realm
	}
	if cfg.Window <= 0 {
		cfg.Window = ConfigDefault.Window
	}
	if cfg.UserCtxName == "" {
		cfg.UserCtxName = ConfigDefault.UserCtxName
	}
	if cfg.Now == nil {
		cfg.Now = ConfigDefault.Now
	}
	if cfg.Unauthorized == nil {
		realm := cfg.Realm
		cfg.Unauthorized = func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, "HMAC realm="+realm)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid service signature",
			})
		}
	}
	return cfg
}
