// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package tags

import (
	"github.com/gofiber/fiber/v2"
	constraints "github.com/qolzam/devflow/internal/middleware/constraints"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/tags/handlers"
)

// TagsHandlers holds all the handlers this router needs.
type TagsHandlers struct {
	TagHandler *handlers.TagHandler
}

// RegisterRoutes mounts the public tag endpoints. GET /tags/:tagId/questions is
// mounted by the questions package.
func RegisterRoutes(app *fiber.App, handlers *TagsHandlers, cfg *platformconfig.Config) {
	group := app.Group("/tags")

	group.Get("/", handlers.TagHandler.ListTags)
	group.Get("/popular", handlers.TagHandler.PopularTags)
	group.Get("/:tagId", constraints.RequireUUID("tagId"), handlers.TagHandler.GetTag)
}
