// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/devflow/internal/pkg/parser"
	"github.com/qolzam/devflow/search/errors"
	"github.com/qolzam/devflow/search/models"
	"github.com/qolzam/devflow/search/services"
)

// SearchHandler serves the global search endpoint.
type SearchHandler struct {
	searchService services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /search?q&type
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	query := &models.SearchQuery{}
	if err := parser.Query(c, query); err != nil {
		return errors.HandleInvalidRequestError(c, err.Error())
	}
	results, err := h.searchService.Search(c.UserContext(), query)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(results)
}
