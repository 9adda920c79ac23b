// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package search

import (
	"github.com/gofiber/fiber/v2"
	platformconfig "github.com/qolzam/devflow/internal/platform/config"
	"github.com/qolzam/devflow/search/handlers"
)

// SearchHandlers holds all the handlers this router needs.
type SearchHandlers struct {
	SearchHandler *handlers.SearchHandler
}

// RegisterRoutes mounts GET /search.
func RegisterRoutes(app *fiber.App, handlers *SearchHandlers, cfg *platformconfig.Config) {
	app.Get("/search", handlers.SearchHandler.Search)
}
