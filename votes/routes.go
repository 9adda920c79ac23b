// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package votes

import (
	"github.com/gofiber/fiber/v2"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	dualauth "github.com/qolzam/devflow/internal/middleware/dualauth"
	"github.com/qolzam/devflow/internal/middleware/ratelimit"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/votes/handlers"
)

// VotesHandlers holds all the handlers this router needs
type VotesHandlers struct {
	VoteHandler *handlers.VoteHandler
}

// RegisterRoutes is the single entry point for setting up votes routes
func RegisterRoutes(app *fiber.App, handlers *VotesHandlers, cfg *platformconfig.Config) {
	dualAuthMiddleware := dualauth.CreateDualAuthMiddleware(dualauth.Config{
		PayloadSecret: cfg.HMAC.Secret,
		PublicKey:     cfg.JWT.PublicKey,
	})
	voteLimit := ratelimit.FromConfig(ratelimit.EndpointVote, cfg.RateLimits.Vote)

	app.Post("/questions/:questionId/votes", constraints.RequireUUID("questionId"), dualAuthMiddleware, voteLimit, handlers.VoteHandler.VoteQuestion)
	app.Post("/answers/:answerId/votes", constraints.RequireUUID("answerId"), dualAuthMiddleware, voteLimit, handlers.VoteHandler.VoteAnswer)
}
