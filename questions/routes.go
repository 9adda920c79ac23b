// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package questions

import (
	"github.com/gofiber/fiber/v2"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	dualauth "github.com/qolzam/devflow/internal/middleware/dualauth"
	"github.com/qolzam/devflow/internal/middleware/ratelimit"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/questions/handlers"
)

// QuestionsHandlers holds all the handlers this router needs.
type QuestionsHandlers struct {
	QuestionHandler *handlers.QuestionHandler
}

// RegisterRoutes mounts the question endpoints, plus the question listings
// nested under /tags and /users. Middleware is attached per route because
// other packages mount routes under the same prefixes.
func RegisterRoutes(app *fiber.App, handlers *QuestionsHandlers, cfg *platformconfig.Config) {
	authConfig := dualauth.Config{
		PayloadSecret: cfg.HMAC.Secret,
		PublicKey:     cfg.JWT.PublicKey,
	}
	requireAuth := dualauth.CreateDualAuthMiddleware(authConfig)
	optionalAuth := dualauth.Optional(authConfig)
	writeLimit := ratelimit.FromConfig(ratelimit.EndpointWrite, cfg.RateLimits.Write)

	h := handlers.QuestionHandler
	group := app.Group("/questions")

	group.Get("/", h.ListQuestions)
	group.Get("/hot", h.HotQuestions)
	group.Post("/", requireAuth, writeLimit, h.CreateQuestion)

	group.Get("/:questionId", constraints.RequireUUID("questionId"), optionalAuth, h.GetQuestion)
	group.Put("/:questionId", constraints.RequireUUID("questionId"), requireAuth, writeLimit, h.UpdateQuestion)
	group.Delete("/:questionId", constraints.RequireUUID("questionId"), requireAuth, writeLimit, h.DeleteQuestion)
	group.Post("/:questionId/view", constraints.RequireUUID("questionId"), optionalAuth, h.ViewQuestion)

	app.Get("/tags/:tagId/questions", constraints.RequireUUID("tagId"), h.QuestionsByTag)
	app.Get("/users/:userId/questions", constraints.RequireUUID("userId"), h.QuestionsByUser)
}
