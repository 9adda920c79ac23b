// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package users

import (
	"github.com/gofiber/fiber/v2"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	dualauth "github.com/qolzam/devflow/internal/middleware/dualauth"
	"github.com/qolzam/devflow/internal/middleware/ratelimit"
	"github.com/qolzam/devflow/internal/middleware/webhooksig"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/users/handlers"
)

// UsersHandlers holds all the handlers this router needs.
type UsersHandlers struct {
	UserHandler    *handlers.UserHandler
	WebhookHandler *handlers.WebhookHandler
}

// RegisterRoutes mounts the user endpoints and the identity webhook.
// The /users/me routes are registered before /users/:userId.
func RegisterRoutes(app *fiber.App, handlers *UsersHandlers, cfg *platformconfig.Config) {
	authConfig := dualauth.Config{
		PayloadSecret: cfg.HMAC.Secret,
		PublicKey:     cfg.JWT.PublicKey,
	}
	requireAuth := dualauth.CreateDualAuthMiddleware(authConfig)
	writeLimit := ratelimit.FromConfig(ratelimit.EndpointWrite, cfg.RateLimits.Write)

	h := handlers.UserHandler

	app.Get("/users", h.ListUsers)
	app.Get("/users/me", requireAuth, h.GetMe)
	app.Put("/users/me", requireAuth, writeLimit, h.UpdateProfile)
	app.Get("/users/me/saved", requireAuth, h.ListSaved)
	app.Post("/users/me/saved/:questionId", constraints.RequireUUID("questionId"), requireAuth, writeLimit, h.ToggleSaved)
	app.Get("/users/:userId", constraints.RequireUUID("userId"), h.GetProfile)

	app.Post("/webhooks/identity",
		ratelimit.FromConfig(ratelimit.EndpointWebhook, cfg.RateLimits.Webhook),
		webhooksig.New(webhooksig.Config{
			Secret:        cfg.Webhook.Secret,
			DevelopSecret: cfg.Webhook.DevelopSecret,
			Tolerance:     cfg.Webhook.Tolerance,
		}),
		handlers.WebhookHandler.HandleIdentityEvent,
	)
}
