// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interactions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/interactions/handlers"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
)

// InteractionsHandlers holds all the handlers this router needs.
type InteractionsHandlers struct {
	InteractionHandler *handlers.InteractionHandler
}

// RegisterRoutes mounts the interaction endpoints.
func RegisterRoutes(app *fiber.App, handlers *InteractionsHandlers, cfg *platformconfig.Config) {
	app.Get("/users/:userId/top-tags", constraints.RequireUUID("userId"), handlers.InteractionHandler.TopTags)
}
