// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package answers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/answers/handlers"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	dualauth "github.com/qolzam/devflow/internal/middleware/dualauth"
	"github.com/qolzam/devflow/internal/middleware/ratelimit"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
)

// AnswersHandlers holds all the handlers this router needs.
type AnswersHandlers struct {
	AnswerHandler *handlers.AnswerHandler
}

// RegisterRoutes mounts the answer endpoints under /questions, /answers and /users.
func RegisterRoutes(app *fiber.App, handlers *AnswersHandlers, cfg *platformconfig.Config) {
	authConfig := dualauth.Config{
		PayloadSecret: cfg.HMAC.Secret,
		PublicKey:     cfg.JWT.PublicKey,
	}
	requireAuth := dualauth.CreateDualAuthMiddleware(authConfig)
	optionalAuth := dualauth.Optional(authConfig)
	writeLimit := ratelimit.FromConfig(ratelimit.EndpointWrite, cfg.RateLimits.Write)

	h := handlers.AnswerHandler

	app.Get("/questions/:questionId/answers", constraints.RequireUUID("questionId"), optionalAuth, h.ListAnswers)
	app.Post("/questions/:questionId/answers", constraints.RequireUUID("questionId"), requireAuth, writeLimit, h.CreateAnswer)
	app.Delete("/answers/:answerId", constraints.RequireUUID("answerId"), requireAuth, writeLimit, h.DeleteAnswer)
	app.Get("/users/:userId/answers", constraints.RequireUUID("userId"), h.AnswersByUser)
}
